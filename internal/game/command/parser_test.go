package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("help")
	assert.Equal(t, "help", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_LowercasesEverything(t *testing.T) {
	result := Parse("FUSE Fire_Cat + WATER_dog")
	assert.Equal(t, "fuse", result.Command)
	assert.Equal(t, []string{"fire_cat", "+", "water_dog"}, result.Args)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  battle   fire_cat \t water_dog  ")
	assert.Equal(t, "battle", result.Command)
	assert.Equal(t, []string{"fire_cat", "water_dog"}, result.Args)
}

func TestSplitBatch(t *testing.T) {
	got := SplitBatch(" fuse fire_cat + water_dog ;; view en;  ; summon fire_cat ")
	assert.Equal(t, []string{"fuse fire_cat + water_dog", "view en", "summon fire_cat"}, got)
}

func TestSplitBatch_Blank(t *testing.T) {
	assert.Empty(t, SplitBatch(" ; ;"))
}

func TestPropertyParseAlwaysLowercases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.StringMatching(`[A-Za-z_+ ]{1,40}`).Draw(t, "line")
		result := Parse(line)
		if result.Command != strings.ToLower(result.Command) {
			t.Fatalf("command %q not lowercased", result.Command)
		}
		for _, a := range result.Args {
			if a != strings.ToLower(a) {
				t.Fatalf("arg %q not lowercased", a)
			}
		}
	})
}

func TestPropertySplitBatchPreservesSegments(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}( [a-z_]{1,8}){0,3}`), 1, 6).Draw(t, "segs")
		got := SplitBatch(strings.Join(segs, " ; "))
		if len(got) != len(segs) {
			t.Fatalf("expected %d segments, got %d (%q)", len(segs), len(got), got)
		}
		for i := range segs {
			if got[i] != segs[i] {
				t.Fatalf("segment %d: want %q got %q", i, segs[i], got[i])
			}
		}
	})
}
