package mappers

import (
	"fmt"
	"time"

	"course-catalog/internal/domain"
)

type ItemType string

const (
	TypeCourse ItemType = "Course"
	TypeModule ItemType = "Module"
	TypeLab    ItemType = "Lab"
)

const (
	coursePrefix   = "COURSE#"
	metadataPrefix = "METADATA#"
	ModulePrefix   = "MODULE#"
	LabPrefix      = "LAB#"
)

// Item is one record of the hierarchical store. Every item of a course
// shares its partition key; the sort key tells course, module and lab apart.
type Item struct {
	PartitionKey    string   `json:"partitionKey"`
	SortKey         string   `json:"sortKey"`
	ID              string   `json:"id"`
	CourseID        string   `json:"courseId,omitempty"`
	RelatedModuleID string   `json:"relatedModuleId,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Level           string   `json:"level,omitempty"`
	DeliveryMethod  string   `json:"deliveryMethod,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	RegistrationURL string   `json:"registrationLink,omitempty"`
	Objectives      []string `json:"objectives,omitempty"`
	Audience        []string `json:"audience,omitempty"`
	Prerequisites   []string `json:"prerequisites,omitempty"`
	Topics          []string `json:"topics,omitempty"`
	Order           int      `json:"order,omitempty"`
	Day             int      `json:"day,omitempty"`
	Type            ItemType `json:"type"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// Key is "<pk>|<sk>", used in logs and failure reports.
func (it Item) Key() string { return it.PartitionKey + "|" + it.SortKey }

func PartitionKey(courseID string) string { return coursePrefix + courseID }
func CourseSortKey(courseID string) string { return metadataPrefix + courseID }
func ModuleSortKey(order int) string { return fmt.Sprintf("%s%04d", ModulePrefix, order) }
func LabSortKey(order int) string { return fmt.Sprintf("%s%04d", LabPrefix, order) }
func moduleItemID(courseID string, o int) string { return fmt.Sprintf("%s#MODULE#%04d", courseID, o) }
func labItemID(courseID string, o int) string { return fmt.Sprintf("%s#LAB#%04d", courseID, o) }

// MapCourse flattens an assembled course into store items: the course item
// first, then modules and labs in their assembled order. createdAt is kept
// separate from now so upserts can preserve the original creation time.
func MapCourse(c domain.Course, courseID string, createdAt, now time.Time) []Item {
	created := createdAt.UTC().Format(time.RFC3339)
	updated := now.UTC().Format(time.RFC3339)
	pk := PartitionKey(courseID)

	items := make([]Item, 0, 1+len(c.Modules)+len(c.Labs))
	items = append(items, Item{
		PartitionKey:    pk,
		SortKey:         CourseSortKey(courseID),
		ID:              courseID,
		Title:           c.Title,
		Description:     c.Description,
		Level:           c.Level,
		DeliveryMethod:  c.DeliveryMethod,
		Duration:        c.Duration,
		RegistrationURL: c.RegistrationLink,
		Objectives:      c.Objectives,
		Audience:        c.Audience,
		Prerequisites:   c.Prerequisites,
		Type:            TypeCourse,
		CreatedAt:       created,
		UpdatedAt:       updated,
	})

	moduleIDs := make(map[string]string, len(c.Modules))
	for _, m := range c.Modules {
		id := moduleItemID(courseID, m.Order)
		if _, dup := moduleIDs[m.Title]; !dup {
			moduleIDs[m.Title] = id
		}
		items = append(items, Item{
			PartitionKey: pk,
			SortKey:      ModuleSortKey(m.Order),
			ID:           id,
			CourseID:     courseID,
			Title:        m.Title,
			Topics:       m.Topics,
			Order:        m.Order,
			Day:          m.Day,
			Type:         TypeModule,
			CreatedAt:    created,
			UpdatedAt:    updated,
		})
	}

	for _, l := range c.Labs {
		items = append(items, Item{
			PartitionKey:    pk,
			SortKey:         LabSortKey(l.Order),
			ID:              labItemID(courseID, l.Order),
			CourseID:        courseID,
			RelatedModuleID: moduleIDs[l.RelatedModule],
			Title:           l.Title,
			Description:     l.Description,
			Order:           l.Order,
			Type:            TypeLab,
			CreatedAt:       created,
			UpdatedAt:       updated,
		})
	}
	return items
}
