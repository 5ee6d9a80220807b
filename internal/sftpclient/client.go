package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var ErrMissingCredentials = errors.New("sftp: missing SFTP_HOST / SFTP_USER / SFTP_PASS")

type Config struct {
	Host      string
	Port      int
	User      string
	Pass      string
	RemoteDir string

	// KnownHosts is used for host key checks unless InsecureIgnoreHostKey is set.
	KnownHosts            string
	InsecureIgnoreHostKey bool
	Timeout               time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port <= 0 {
		c.Port = 22
	}
	if c.RemoteDir == "" {
		c.RemoteDir = "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	return c
}

func (c Config) validate() error {
	if c.Host == "" || c.User == "" || c.Pass == "" {
		return ErrMissingCredentials
	}
	return nil
}

// FromURL overlays host, port, user and password from an sftp:// URL onto
// base and returns the remote path the URL points at.
func FromURL(base Config, raw string) (Config, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return base, "", fmt.Errorf("sftp: parse %q: %w", raw, err)
	}
	if u.Scheme != "sftp" {
		return base, "", fmt.Errorf("sftp: unsupported scheme %q", u.Scheme)
	}
	if h := u.Hostname(); h != "" {
		base.Host = h
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return base, "", fmt.Errorf("sftp: bad port %q", p)
		}
		base.Port = n
	}
	if u.User != nil {
		base.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			base.Pass = pw
		}
	}
	if u.Path == "" || u.Path == "/" {
		return base, "", fmt.Errorf("sftp: %q has no file path", raw)
	}
	return base, u.Path, nil
}

func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey || cfg.KnownHosts == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("sftp: known_hosts: %w", err)
	}
	return cb, nil
}

// session holds an open ssh connection and the sftp client on top of it.
type session struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *session) Close() error {
	err := s.sftp.Close()
	if cerr := s.ssh.Close(); err == nil {
		err = cerr
	}
	return err
}

func open(ctx context.Context, cfg Config) (*session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cb, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         cfg.Timeout,
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		// drain so a late connection is not leaked
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial %s: %w", addr, r.err)
		}
		sshClient = r.client
	}

	cli, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("sftp: new client: %w", err)
	}
	return &session{ssh: sshClient, sftp: cli}, nil
}

// Download reads remotePath. Relative paths resolve against cfg.RemoteDir.
func Download(ctx context.Context, cfg Config, remotePath string) ([]byte, error) {
	cfg = cfg.withDefaults()
	s, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	full := resolve(cfg.RemoteDir, remotePath)
	f, err := s.sftp.Open(full)
	if err != nil {
		return nil, fmt.Errorf("sftp: open %s: %w", full, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("sftp: read %s: %w", full, err)
	}
	return data, nil
}

// Upload writes data to cfg.RemoteDir/name, creating the directory if needed.
func Upload(ctx context.Context, cfg Config, name string, data []byte) error {
	cfg = cfg.withDefaults()
	s, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.sftp.MkdirAll(cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", cfg.RemoteDir, err)
	}

	full := path.Join(cfg.RemoteDir, name)
	dst, err := s.sftp.Create(full)
	if err != nil {
		return fmt.Errorf("sftp: create %s: %w", full, err)
	}
	if _, err := dst.Write(data); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: write %s: %w", full, err)
	}
	return dst.Close()
}

func resolve(dir, p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(dir, p)
}
