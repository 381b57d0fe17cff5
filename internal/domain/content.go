package domain

import (
	"math"
	"sort"
	"strings"
)

// DefaultSection names the section of items stored without one.
const DefaultSection = "General"

type ContentKind string

const (
	KindVideo ContentKind = "video"
	KindPDF   ContentKind = "pdf"
	KindQuiz  ContentKind = "quiz"
)

func (k ContentKind) rank() int {
	switch k {
	case KindVideo:
		return 0
	case KindPDF:
		return 1
	default:
		return 2
	}
}

type ContentItem struct {
	Kind  ContentKind  `json:"kind"`
	ID    uint         `json:"id"`
	Title string       `json:"title"`
	Order *int         `json:"order,omitempty"`
	Video *Video       `json:"video,omitempty"`
	PDF   *MaterialPDF `json:"pdf,omitempty"`
	Quiz  *Quiz        `json:"quiz,omitempty"`
}

func (i ContentItem) sortOrder() int {
	if i.Order == nil {
		return math.MaxInt
	}
	return *i.Order
}

type Section struct {
	Name  string        `json:"name"`
	Items []ContentItem `json:"items"`
}

type Outline []Section

func NormalizeSection(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultSection
	}
	return name
}

// BuildOutline groups course content into sections. Sections keep the order
// in which they first appear among videos, then PDFs, then quizzes. Each
// section holds at most one quiz.
func BuildOutline(videos []Video, pdfs []MaterialPDF, quizzes []Quiz) Outline {
	var names []string
	bySection := make(map[string][]ContentItem)
	add := func(section string, item ContentItem) {
		if _, seen := bySection[section]; !seen {
			names = append(names, section)
			bySection[section] = nil
		}
		bySection[section] = append(bySection[section], item)
	}

	for i := range videos {
		v := &videos[i]
		add(NormalizeSection(v.Section), ContentItem{Kind: KindVideo, ID: v.ID, Title: v.Title, Order: v.Order, Video: v})
	}
	for i := range pdfs {
		p := &pdfs[i]
		add(NormalizeSection(p.Section), ContentItem{Kind: KindPDF, ID: p.ID, Title: p.Title, Order: p.Order, PDF: p})
	}
	hasQuiz := make(map[string]bool)
	for i := range quizzes {
		q := &quizzes[i]
		section := NormalizeSection(q.Section)
		if hasQuiz[section] {
			continue
		}
		hasQuiz[section] = true
		add(section, ContentItem{Kind: KindQuiz, ID: q.ID, Title: q.Title, Quiz: q})
	}

	outline := make(Outline, 0, len(names))
	for _, name := range names {
		items := bySection[name]
		sort.SliceStable(items, func(a, b int) bool { return lessItem(items[a], items[b]) })
		outline = append(outline, Section{Name: name, Items: items})
	}
	return outline
}

func lessItem(a, b ContentItem) bool {
	if oa, ob := a.sortOrder(), b.sortOrder(); oa != ob {
		return oa < ob
	}
	if ra, rb := a.Kind.rank(), b.Kind.rank(); ra != rb {
		return ra < rb
	}
	return a.ID < b.ID
}

// Locate returns the name of the section holding the given item.
func (o Outline) Locate(kind ContentKind, id uint) (string, bool) {
	for _, s := range o {
		for _, item := range s.Items {
			if item.Kind == kind && item.ID == id {
				return s.Name, true
			}
		}
	}
	return "", false
}

// Items flattens the outline in display order.
func (o Outline) Items() []ContentItem {
	var items []ContentItem
	for _, s := range o {
		items = append(items, s.Items...)
	}
	return items
}
