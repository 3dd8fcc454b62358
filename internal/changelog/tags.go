package changelog

import "slices"

// Type is the canonical change category of an entry.
type Type string

const (
	TypeBugfix     Type = "bugfix"
	TypeWIP        Type = "wip"
	TypeTweak      Type = "tweak"
	TypeSoundAdd   Type = "soundadd"
	TypeSoundDel   Type = "sounddel"
	TypeRscAdd     Type = "rscadd"
	TypeRscDel     Type = "rscdel"
	TypeImageAdd   Type = "imageadd"
	TypeImageDel   Type = "imagedel"
	TypeSpellcheck Type = "spellcheck"
	TypeExperiment Type = "experiment"
	TypeTGS        Type = "tgs"
)

// typeOrder is the display order used by Types.
var typeOrder = []Type{
	TypeBugfix, TypeWIP, TypeTweak, TypeSoundAdd, TypeSoundDel, TypeRscAdd,
	TypeRscDel, TypeImageAdd, TypeImageDel, TypeSpellcheck, TypeExperiment, TypeTGS,
}

// tagTypes maps every accepted raw tag to its canonical type. Matching is exact.
var tagTypes = map[string]Type{
	"fix":          TypeBugfix,
	"fixes":        TypeBugfix,
	"bugfix":       TypeBugfix,
	"wip":          TypeWIP,
	"rsctweak":     TypeTweak,
	"tweaks":       TypeTweak,
	"tweak":        TypeTweak,
	"soundadd":     TypeSoundAdd,
	"sounddel":     TypeSoundDel,
	"add":          TypeRscAdd,
	"adds":         TypeRscAdd,
	"rscadd":       TypeRscAdd,
	"del":          TypeRscDel,
	"dels":         TypeRscDel,
	"rscdel":       TypeRscDel,
	"imageadd":     TypeImageAdd,
	"imagedel":     TypeImageDel,
	"typo":         TypeSpellcheck,
	"spellcheck":   TypeSpellcheck,
	"experimental": TypeExperiment,
	"experiment":   TypeExperiment,
	"tgs":          TypeTGS,
}

var typeEmoji = map[Type]string{
	TypeBugfix:     "bug",
	TypeWIP:        "biohazard",
	TypeTweak:      "wrench",
	TypeSoundAdd:   "loud_sound",
	TypeSoundDel:   "mute",
	TypeRscAdd:     "battery",
	TypeRscDel:     "octagonal_sign",
	TypeImageAdd:   "art",
	TypeImageDel:   "scissors",
	TypeSpellcheck: "pen_ballpoint",
	TypeExperiment: "biohazard",
	TypeTGS:        "question",
}

// Classify resolves a raw entry tag such as "fixes" to its canonical type.
func Classify(tag string) (Type, bool) {
	t, ok := tagTypes[tag]
	return t, ok
}

// Emoji returns the Discord emoji name shown for the type, without colons.
func (t Type) Emoji() string {
	return typeEmoji[t]
}

// Valid reports whether t is one of the canonical types.
func (t Type) Valid() bool {
	_, ok := typeEmoji[t]
	return ok
}

// Types returns the canonical types in table order.
func Types() []Type {
	out := make([]Type, len(typeOrder))
	copy(out, typeOrder)
	return out
}

// Aliases returns the raw tags accepted for t, sorted.
func Aliases(t Type) []string {
	var out []string
	for tag, typ := range tagTypes {
		if typ == t {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out
}
