package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tags  []string
		typ   Type
		emoji string
	}{
		{[]string{"fix", "fixes", "bugfix"}, TypeBugfix, "bug"},
		{[]string{"wip"}, TypeWIP, "biohazard"},
		{[]string{"rsctweak", "tweaks", "tweak"}, TypeTweak, "wrench"},
		{[]string{"soundadd"}, TypeSoundAdd, "loud_sound"},
		{[]string{"sounddel"}, TypeSoundDel, "mute"},
		{[]string{"add", "adds", "rscadd"}, TypeRscAdd, "battery"},
		{[]string{"del", "dels", "rscdel"}, TypeRscDel, "octagonal_sign"},
		{[]string{"imageadd"}, TypeImageAdd, "art"},
		{[]string{"imagedel"}, TypeImageDel, "scissors"},
		{[]string{"typo", "spellcheck"}, TypeSpellcheck, "pen_ballpoint"},
		{[]string{"experimental", "experiment"}, TypeExperiment, "biohazard"},
		{[]string{"tgs"}, TypeTGS, "question"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			for _, tag := range tt.tags {
				typ, ok := Classify(tag)
				require.True(t, ok, tag)
				assert.Equal(t, tt.typ, typ, tag)
				assert.Equal(t, tt.emoji, typ.Emoji(), tag)

				cl, err := Compile(":cl:\n" + tag + ": body\n/:cl:")
				require.NoError(t, err, tag)
				assert.Equal(t, tt.typ, cl.Entries()[0].Type, tag)
			}
			assert.ElementsMatch(t, tt.tags, Aliases(tt.typ))
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	for _, tag := range []string{"", "FIX", "Add", "feature", "bug", "rscadd "} {
		_, ok := Classify(tag)
		assert.False(t, ok, "%q", tag)
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 12)
	assert.Equal(t, TypeBugfix, types[0])
	assert.Equal(t, TypeTGS, types[len(types)-1])
	for _, typ := range types {
		assert.True(t, typ.Valid(), typ)
		assert.NotEmpty(t, typ.Emoji(), typ)
	}
	assert.False(t, Type("feature").Valid())

	types[0] = "changed"
	assert.Equal(t, TypeBugfix, Types()[0])
}
