package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"barangay-projects-api/internal/domain"
)

// ErrInvalidQuery is wrapped by every parse failure in this package
var ErrInvalidQuery = errors.New("invalid query")

// Field identifies a numeric column that accepts a range directive
type Field string

const (
	FieldProgress Field = "progress"
	FieldViews    Field = "views"
	FieldBudget   Field = "budget"
)

var rangeFields = []Field{FieldProgress, FieldViews, FieldBudget}

// sortColumns maps accepted sort keys to project columns
var sortColumns = map[string]string{
	"title":           "title",
	"budget":          "budget",
	"progress":        "progress",
	"views":           "views",
	"status":          "status",
	"createdAt":       "created_at",
	"created_at":      "created_at",
	"updatedAt":       "updated_at",
	"updated_at":      "updated_at",
	"startDate":       "start_date",
	"start_date":      "start_date",
	"dueDate":         "due_date",
	"due_date":        "due_date",
	"completionDate":  "completion_date",
	"completion_date": "completion_date",
}

// Include names data loaded alongside every retrieved project
type Include string

const (
	IncludeTags         Include = "Tags"
	IncludeBarangays    Include = "Barangays"
	IncludeCommentCount Include = "CommentCount"
	IncludeMedia        Include = "Media"
)

var includes = []Include{IncludeTags, IncludeBarangays, IncludeCommentCount, IncludeMedia}

// Condition is one WHERE fragment with its bind arguments
type Condition struct {
	SQL  string
	Args []interface{}
}

// Order is one ORDER BY term
type Order struct {
	Column string
	Desc   bool
}

func (o Order) String() string {
	if o.Desc {
		return "projects." + o.Column + " DESC"
	}
	return "projects." + o.Column + " ASC"
}

var defaultOrder = []Order{{Column: "created_at", Desc: true}}

// Params are the raw list-projects query values
type Params struct {
	Search        string `form:"search"`
	Tags          string `form:"tags"`
	Barangays     string `form:"barangays"`
	Status        string `form:"status"`
	Sort          string `form:"sort"`
	ProgressRange string `form:"progressRange"`
	ViewsRange    string `form:"viewsRange"`
	BudgetRange   string `form:"budgetRange"`
	Page          string `form:"page"`
	Limit         string `form:"limit"`
}

// Spec is an immutable project retrieval specification. Every With* method
// returns a new Spec, and applying directives in any order yields an equal Spec.
type Spec struct {
	search      string
	tagIDs      []uint
	barangayIDs []uint
	status      domain.ProjectStatus
	order       []Order
	ranges      map[Field]Range
	page        Page
}

// New returns a Spec with no filters, default ordering and the default page
func New() Spec {
	return Spec{page: DefaultPageSpec()}
}

// Build parses raw params into a Spec
func Build(p Params) (Spec, error) {
	s := New()

	if search := strings.TrimSpace(p.Search); search != "" {
		s = s.WithSearch(search)
	}
	if p.Tags != "" {
		ids, err := ParseIDs(p.Tags)
		if err != nil {
			return Spec{}, fmt.Errorf("tags: %w", err)
		}
		s = s.WithTags(ids...)
	}
	if p.Barangays != "" {
		ids, err := ParseIDs(p.Barangays)
		if err != nil {
			return Spec{}, fmt.Errorf("barangays: %w", err)
		}
		s = s.WithBarangays(ids...)
	}
	if p.Status != "" {
		status, ok := domain.ParseProjectStatus(p.Status)
		if !ok {
			return Spec{}, fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, p.Status)
		}
		s = s.WithStatus(status)
	}
	if p.Sort != "" {
		order, err := ParseSort(p.Sort)
		if err != nil {
			return Spec{}, err
		}
		s = s.WithSort(order...)
	}

	for field, raw := range map[Field]string{
		FieldProgress: p.ProgressRange,
		FieldViews:    p.ViewsRange,
		FieldBudget:   p.BudgetRange,
	} {
		if raw == "" {
			continue
		}
		r, err := ParseRange(raw)
		if err != nil {
			return Spec{}, fmt.Errorf("%sRange: %w", field, err)
		}
		s = s.WithRange(field, r)
	}

	page, err := ParsePage(p.Page, p.Limit)
	if err != nil {
		return Spec{}, err
	}
	return s.WithPage(page), nil
}

// ParseSort parses "-createdAt,title" into order terms
func ParseSort(raw string) ([]Order, error) {
	var order []Order
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		column, ok := sortColumns[strings.TrimPrefix(field, "-")]
		if !ok {
			return nil, fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, field)
		}
		order = append(order, Order{Column: column, Desc: desc})
	}
	return order, nil
}

func (s Spec) clone() Spec {
	c := s
	c.tagIDs = append([]uint(nil), s.tagIDs...)
	c.barangayIDs = append([]uint(nil), s.barangayIDs...)
	c.order = append([]Order(nil), s.order...)
	if s.ranges != nil {
		c.ranges = make(map[Field]Range, len(s.ranges))
		for k, v := range s.ranges {
			c.ranges[k] = v
		}
	}
	return c
}

func (s Spec) WithSearch(term string) Spec {
	c := s.clone()
	c.search = term
	return c
}

func (s Spec) WithTags(ids ...uint) Spec {
	c := s.clone()
	c.tagIDs = normalizeIDs(ids)
	return c
}

func (s Spec) WithBarangays(ids ...uint) Spec {
	c := s.clone()
	c.barangayIDs = normalizeIDs(ids)
	return c
}

func (s Spec) WithStatus(status domain.ProjectStatus) Spec {
	c := s.clone()
	c.status = status
	return c
}

// WithSort replaces the ordering; terms apply in the given order as tie-breaks
func (s Spec) WithSort(order ...Order) Spec {
	c := s.clone()
	c.order = append([]Order(nil), order...)
	return c
}

func (s Spec) WithRange(field Field, r Range) Spec {
	c := s.clone()
	if c.ranges == nil {
		c.ranges = make(map[Field]Range, 1)
	}
	c.ranges[field] = r
	return c
}

func (s Spec) WithPage(p Page) Spec {
	c := s.clone()
	c.page = p
	return c
}

// Conditions returns the WHERE fragments in a fixed order
func (s Spec) Conditions() []Condition {
	var conds []Condition

	if s.search != "" {
		conds = append(conds, Condition{
			SQL:  `LOWER(projects.title) LIKE ? ESCAPE '\'`,
			Args: []interface{}{"%" + escapeLike(strings.ToLower(s.search)) + "%"},
		})
	}
	if s.status != "" {
		conds = append(conds, Condition{SQL: "projects.status = ?", Args: []interface{}{string(s.status)}})
	}
	if len(s.tagIDs) > 0 {
		conds = append(conds, Condition{
			SQL:  "EXISTS (SELECT 1 FROM project_tags pt WHERE pt.project_id = projects.id AND pt.tag_id IN ?)",
			Args: []interface{}{s.tagIDs},
		})
	}
	if len(s.barangayIDs) > 0 {
		conds = append(conds, Condition{
			SQL:  "EXISTS (SELECT 1 FROM project_barangays pb WHERE pb.project_id = projects.id AND pb.barangay_id IN ?)",
			Args: []interface{}{s.barangayIDs},
		})
	}
	for _, field := range rangeFields {
		if r, ok := s.ranges[field]; ok {
			conds = append(conds, r.condition("projects."+string(field)))
		}
	}
	return conds
}

// Order returns the ORDER BY terms, newest first when no sort was requested
func (s Spec) Order() []Order {
	if len(s.order) == 0 {
		return append([]Order(nil), defaultOrder...)
	}
	return append([]Order(nil), s.order...)
}

// Includes returns the associations to load; the set is the same for every Spec
func (s Spec) Includes() []Include {
	return append([]Include(nil), includes...)
}

// Page returns the requested page
func (s Spec) Page() Page {
	return s.page
}

// Filter applies the WHERE conditions only, for counting
func (s Spec) Filter(db *gorm.DB) *gorm.DB {
	for _, c := range s.Conditions() {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}

// Apply applies conditions, ordering and pagination
func (s Spec) Apply(db *gorm.DB) *gorm.DB {
	db = s.Filter(db)
	for _, o := range s.Order() {
		db = db.Order(o.String())
	}
	return db.Limit(s.page.Limit).Offset(s.page.Offset())
}

func normalizeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
