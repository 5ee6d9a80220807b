package domain

// Sentinels used wherever a field would otherwise be an empty string. Empty
// strings are not valid secondary-index key values in the target store.
const (
	Unspecified     = "unspecified"
	DefaultDelivery = "classroom"
)

// Course is one catalog entry assembled from a title block of the source
// document. It is treated as immutable once the assembler returns it; the
// surrogate id is assigned later, at persistence time.
type Course struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Level            string   `json:"level"`
	DeliveryMethod   string   `json:"deliveryMethod"`
	Duration         string   `json:"duration"`
	Objectives       []string `json:"objectives"`
	Audience         []string `json:"audience"`
	Prerequisites    []string `json:"prerequisites"`
	RegistrationLink string   `json:"registrationLink,omitempty"`
	Modules          []Module `json:"modules"`
	Labs             []Lab    `json:"labs"`
}

// Module is an ordered curriculum unit owned by exactly one Course.
type Module struct {
	Title  string   `json:"title"`
	Order  int      `json:"order"`
	Topics []string `json:"topics"`
	Day    int      `json:"day,omitempty"` // 0 = no day grouping
}

// Lab is a hands-on exercise owned by one Course. RelatedModule is the title
// of the module that was current when the lab was seen; it is informational,
// not an ownership edge.
type Lab struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Order         int    `json:"order"`
	RelatedModule string `json:"relatedModule,omitempty"`
}

// TopicCount sums topics across modules.
func (c Course) TopicCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Topics)
	}
	return n
}

