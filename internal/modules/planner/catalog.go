package planner

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/upskill-backend/internal/normalization"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogSkill struct {
	Skill  string `yaml:"skill"`
	Reason string `yaml:"reason"`
}

type catalogWeek struct {
	Focus       string `yaml:"focus"`
	Outcome     string `yaml:"outcome"`
	MiniProject string `yaml:"mini_project"`
}

type catalogRole struct {
	Name   string         `yaml:"name"`
	Skills []catalogSkill `yaml:"skills"`
	Weeks  []catalogWeek  `yaml:"weeks"`
}

// Catalog holds the hand-authored role tables used by the deterministic
// generator and the role suggestion fallback.
type Catalog struct {
	Roles   []catalogRole `yaml:"roles"`
	Generic struct {
		Skills []catalogSkill `yaml:"skills"`
		Weeks  []catalogWeek  `yaml:"weeks"`
	} `yaml:"generic"`

	byName map[string]*catalogRole
}

const goalPlaceholder = "{goal}"

var (
	catalogOnce sync.Once
	catalog     *Catalog
	catalogErr  error
)

// DefaultCatalog parses the embedded catalog once.
func DefaultCatalog() *Catalog {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParseCatalog(catalogYAML)
	})
	if catalogErr != nil {
		// The embedded file is checked by tests; a failure here is a build defect.
		panic(fmt.Sprintf("planner: embedded catalog: %v", catalogErr))
	}
	return catalog
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if len(c.Generic.Skills) != skillCount || len(c.Generic.Weeks) != weekCount {
		return nil, fmt.Errorf("generic templates need %d skills and %d weeks", skillCount, weekCount)
	}
	c.byName = make(map[string]*catalogRole, len(c.Roles))
	for i := range c.Roles {
		r := &c.Roles[i]
		if len(r.Skills) != skillCount {
			return nil, fmt.Errorf("role %q: want %d skills, got %d", r.Name, skillCount, len(r.Skills))
		}
		if len(r.Weeks) != 0 && len(r.Weeks) != weekCount {
			return nil, fmt.Errorf("role %q: want %d weeks, got %d", r.Name, weekCount, len(r.Weeks))
		}
		c.byName[r.Name] = r
	}
	return &c, nil
}

// Role looks up a known role by exact name.
func (c *Catalog) Role(name string) (*catalogRole, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// RoleNames returns the known role names in catalog order.
func (c *Catalog) RoleNames() []string {
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, r.Name)
	}
	return out
}

// MatchRoles returns known role names containing query, case-insensitively.
func (c *Catalog) MatchRoles(query string, limit int) []string {
	q := normalization.Fold(query)
	out := []string{}
	for _, r := range c.Roles {
		if q != "" && strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r.Name)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func fillGoal(tmpl, goal string) string {
	return strings.ReplaceAll(tmpl, goalPlaceholder, goal)
}
