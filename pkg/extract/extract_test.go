package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructural(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		selector string
		want     []string
		wantNot  []string
	}{
		{
			name: "scripts styles and comments are pruned",
			input: `<html><head><title>Job</title><script>track()</script></head>
				<body><!-- hero --><style>.x{}</style><h1>Hi</h1></body></html>`,
			want:    []string{"<h1>Hi</h1>"},
			wantNot: []string{"script", "track()", "style", "hero", "title"},
		},
		{
			name: "empty leaves are dropped",
			input: `<body><div class="spacer"></div><div><span></span></div>
				<p>Senior Gopher</p></body>`,
			want:    []string{"<p>Senior Gopher</p>"},
			wantNot: []string{"spacer", "<span>"},
		},
		{
			name: "targeting attributes survive",
			input: `<body><form action="/apply" method="post" style="color:red">
				<input type="email" name="email" placeholder="Email" onfocus="x()">
				<button type="submit" class="btn">Apply</button></form></body>`,
			want: []string{
				`<form action="/apply" method="post">`,
				`type="email"`, `name="email"`, `placeholder="Email"`,
				`class="btn"`,
			},
			wantNot: []string{"style=", "onfocus"},
		},
		{
			name:     "selector roots the subtree",
			input:    `<body><nav>Menu</nav><article id="posting"><h2>Role</h2></article></body>`,
			selector: "#posting",
			want:     []string{"<h2>Role</h2>"},
			wantNot:  []string{"Menu", "<nav>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Structural(tt.input, tt.selector, 0)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
			for _, not := range tt.wantNot {
				assert.NotContains(t, got, not)
			}
		})
	}
}

func TestStructuralUnknownSelector(t *testing.T) {
	_, err := Structural(`<body><p>hi</p></body>`, "#nope", 0)
	assert.Error(t, err)
}

func TestStructuralTruncates(t *testing.T) {
	long := `<body><p>` + strings.Repeat("word ", 200) + `</p></body>`
	got, err := Structural(long, "", 100)
	require.NoError(t, err)
	assert.Contains(t, got, "content truncated")
}

func TestText(t *testing.T) {
	input := `<html><head><script>x()</script></head><body>
		<h1>Backend Engineer</h1>
		<p>Remote, <a href="/apply">apply here</a>.</p>
		<ul><li>Go</li><li>Postgres</li></ul>
	</body></html>`

	got, err := Text(input, 0)
	require.NoError(t, err)

	assert.Contains(t, got, "# Backend Engineer")
	assert.Contains(t, got, "[apply here](/apply)")
	assert.Contains(t, got, "- Go")
	assert.Contains(t, got, "- Postgres")
	assert.NotContains(t, got, "x()")
	assert.NotContains(t, got, "\n\n\n")
}
