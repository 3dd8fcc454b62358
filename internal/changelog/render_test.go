package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type commitFile struct {
	Author      string              `yaml:"author"`
	DeleteAfter bool                `yaml:"delete-after"`
	Changes     []map[string]string `yaml:"changes"`
}

func TestCommitFile(t *testing.T) {
	cl, err := Compile(":cl: Alice\nadd: Added toolbox\nfix: Fixed <b>bug</b>\n/:cl:")
	require.NoError(t, err)

	out := CommitFile(cl, "octocat")
	assert.Equal(t, "author: \"Alice\"\n"+
		"delete-after: true\n"+
		"changes:\n"+
		"  - rscadd: \"Added toolbox\"\n"+
		"  - bugfix: \"Fixed b>bug/b>\"\n", out)

	var parsed commitFile
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Alice", parsed.Author)
	assert.True(t, parsed.DeleteAfter)
	require.Len(t, parsed.Changes, 2)
	assert.Equal(t, "Added toolbox", parsed.Changes[0]["rscadd"])
}

func TestCommitFile_FallbackAuthorAndEscaping(t *testing.T) {
	cl, err := Compile(":cl:\ntweak: Renamed \"thing\"\n/:cl:")
	require.NoError(t, err)

	out := CommitFile(cl, `pr"user`)
	assert.True(t, strings.HasPrefix(out, "author: \"pr\\\"user\"\n"), out)
	assert.Contains(t, out, `  - tweak: "Renamed \\"thing\\""`)
}

func TestCommitFile_EmptyChangelog(t *testing.T) {
	cl, err := Compile(":cl:\n/:cl:")
	require.NoError(t, err)
	assert.Equal(t, "author: \"someone\"\ndelete-after: true\nchanges:\n", CommitFile(cl, "someone"))
}

func TestSummary(t *testing.T) {
	cl, err := Compile(":cl:\nadd: Added toolbox\nfix: Fixed bug\nimagedel: Removed sprite\n/:cl:")
	require.NoError(t, err)

	out := Summary(cl, nil)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	for i, e := range cl.Entries() {
		assert.True(t, strings.HasPrefix(lines[i], ":"+e.Emoji()+":: "), lines[i])
		assert.True(t, strings.HasSuffix(lines[i], e.Body), lines[i])
	}
	assert.Equal(t, ":battery:: Added toolbox\n:bug:: Fixed bug\n:scissors:: Removed sprite\n", out)
}

func TestSummary_Error(t *testing.T) {
	cl, err := Compile(":cl:\nbadtag: x\n/:cl:")
	out := Summary(cl, err)
	assert.True(t, strings.HasPrefix(out, "error compiling changelog"), out)
	assert.Contains(t, out, "badtag")
}

func TestSummary_MaxLength(t *testing.T) {
	// ":battery:: " is 11 runes, plus body and newline.
	fits := ":cl:\nadd: " + strings.Repeat("a", MaxSummaryLength-12) + "\n/:cl:"
	cl, err := Compile(fits)
	require.NoError(t, err)
	out := Summary(cl, nil)
	assert.Len(t, []rune(out), MaxSummaryLength)

	tooLong := ":cl:\nadd: " + strings.Repeat("a", MaxSummaryLength-11) + "\n/:cl:"
	cl, err = Compile(tooLong)
	require.NoError(t, err)
	assert.Equal(t, SummaryTooLong, Summary(cl, nil))

	var body strings.Builder
	body.WriteString(":cl:\n")
	for i := 0; i < 100; i++ {
		body.WriteString("fix: a reasonably short line\n")
	}
	body.WriteString("/:cl:")
	cl, err = Compile(body.String())
	require.NoError(t, err)
	assert.Equal(t, SummaryTooLong, Summary(cl, nil))
}

func TestCommitFile_AuthorBackslashStaysParseable(t *testing.T) {
	cl, err := Compile(":cl: C:\\Users\\x \"admin\"\nadd: x\n/:cl:")
	require.NoError(t, err)

	out := CommitFile(cl, "")
	assert.True(t, strings.HasPrefix(out, `author: "C:\\Users\\x \"admin\""`), out)

	var parsed commitFile
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, `C:\Users\x "admin"`, parsed.Author)
}

func TestSummarizeEntries(t *testing.T) {
	entries := []Entry{{Type: TypeImageAdd, Body: "New sprite"}, {Type: TypeTGS, Body: "Bumped"}}
	assert.Equal(t, ":art:: New sprite\n:question:: Bumped\n", SummarizeEntries(entries))
	assert.Equal(t, "", SummarizeEntries(nil))

	long := []Entry{{Type: TypeRscAdd, Body: strings.Repeat("x", MaxSummaryLength)}}
	assert.Equal(t, SummaryTooLong, SummarizeEntries(long))
}
