package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
)

func sample(icons bool) *breadcrumb.Result {
	return &breadcrumb.Result{
		Path: "/ws/src/main.go",
		Trail: breadcrumb.Trail{
			{Entries: []breadcrumb.Entry{{Name: "/", Path: "/", Kind: breadcrumb.KindDirectory, Selected: true}}},
			{Dir: "/", Entries: []breadcrumb.Entry{
				{Name: "ws", Path: "/ws", Kind: breadcrumb.KindDirectory, Selected: true},
				{Name: "etc", Path: "/etc", Kind: breadcrumb.KindDirectory},
			}},
			{Dir: "/ws", Entries: []breadcrumb.Entry{
				{Name: "src", Path: "/ws/src", Kind: breadcrumb.KindDirectory, Selected: true},
			}},
			{Dir: "/ws/src", Entries: []breadcrumb.Entry{
				{Name: "main.go", Path: "/ws/src/main.go", Kind: breadcrumb.KindFile, Selected: true},
				{Name: "util.go", Path: "/ws/src/util.go", Kind: breadcrumb.KindFile},
			}},
		},
		ShowIcons: icons,
	}
}

func TestRenderer_Path(t *testing.T) {
	out := New(panel.ThemeDark).Path(sample(false))

	for _, name := range []string{"/", "ws", "src", "main.go"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "etc")
	assert.NotContains(t, out, "util.go")
	assert.Equal(t, 3, strings.Count(out, "›"))
}

func TestRenderer_Levels(t *testing.T) {
	out := New(panel.ThemeLight).Levels(sample(false))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "etc")
	assert.Contains(t, lines[3], "util.go")
}

func TestRenderer_Icons(t *testing.T) {
	r := New(panel.ThemeDark)

	assert.Contains(t, r.Path(sample(true)), folderIcon+"src")
	assert.Contains(t, r.Path(sample(true)), fileIcon+"main.go")
	assert.NotContains(t, r.Path(sample(false)), folderIcon)
}

func TestRenderer_Empty(t *testing.T) {
	r := New(panel.ThemeDark)
	empty := &breadcrumb.Result{Trail: breadcrumb.Trail{}}

	assert.Contains(t, r.Path(empty), "no active file")
	assert.Contains(t, r.Levels(empty), "no active file")
}
