package entity

import (
	"reflect"
	"testing"

	"github.com/dotcommander/opener/internal/manuscript"
)

type wantRef struct {
	name      string
	canonical string
	category  manuscript.Category
	refType   manuscript.ReferenceType
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		established Established
		want        []wantRef
	}{
		{
			name: "pronoun with empty context",
			text: "He walked into the room.",
			want: []wantRef{{"He", "he", manuscript.CategoryCharacter, manuscript.ReferencePronoun}},
		},
		{
			name:        "pronoun with established context",
			text:        "He walked into the room.",
			established: NewEstablished("marcus"),
			want:        nil,
		},
		{
			name: "generic pronoun skipped",
			text: "Someone knocked twice.",
			want: nil,
		},
		{
			name:        "definite outside allow-list",
			text:        "She picked up the letter and watched the sun.",
			established: NewEstablished("anna"),
			want:        []wantRef{{"the letter", "letter", manuscript.CategoryObject, manuscript.ReferenceDefinite}},
		},
		{
			name:        "possessive owner",
			text:        "They found Sarah's diary.",
			established: NewEstablished("anna"),
			want:        []wantRef{{"Sarah", "sarah", manuscript.CategoryCharacter, manuscript.ReferencePossessive}},
		},
		{
			name:        "action presupposing prior state",
			text:        "Later, Marcus returned to the docks.",
			established: NewEstablished("anna"),
			want: []wantRef{
				{"Marcus returned", "marcus returned", manuscript.CategoryEvent, manuscript.ReferenceAction},
				{"the docks", "docks", manuscript.CategoryLocation, manuscript.ReferenceDefinite},
			},
		},
		{
			name:        "comparative without baseline",
			text:        "The storm was worse than before.",
			established: NewEstablished("anna"),
			want: []wantRef{
				{"The storm", "storm", manuscript.CategoryEvent, manuscript.ReferenceDefinite},
				{"worse than before", "worse than before", manuscript.CategoryConcept, manuscript.ReferenceComparative},
			},
		},
		{
			name:        "comparative with established baseline",
			text:        "Anna ran faster than Marcus.",
			established: NewEstablished("marcus"),
			want:        []wantRef{{"Anna", "anna", manuscript.CategoryCharacter, manuscript.ReferenceDefinite}},
		},
		{
			name: "scene-opening proper noun",
			text: "Marcus lit a cigarette.",
			want: []wantRef{{"Marcus", "marcus", manuscript.CategoryCharacter, manuscript.ReferenceDefinite}},
		},
		{
			name:        "introduction earlier in the scene resolves",
			text:        "A stranger arrived. The stranger smiled.",
			established: NewEstablished("anna"),
			want:        nil,
		},
		{
			name: "name earlier in the scene disables pronoun flag",
			text: "Sarah entered. She sat down.",
			want: []wantRef{{"Sarah", "sarah", manuscript.CategoryCharacter, manuscript.ReferenceDefinite}},
		},
		{
			name: "same offset and surface reported once",
			text: "Sarah's coat was wet.",
			want: []wantRef{{"Sarah", "sarah", manuscript.CategoryCharacter, manuscript.ReferencePossessive}},
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := manuscript.Scene{ID: "s1", Text: tt.text, EndOffset: len(tt.text)}
			refs := d.Detect(scene, tt.established)
			var got []wantRef
			for _, r := range refs {
				got = append(got, wantRef{r.Name, r.Canonical, r.Category, r.ReferenceType})
				if r.Anchor.SceneID != "s1" {
					t.Errorf("anchor scene = %q", r.Anchor.SceneID)
				}
				if tt.text[r.Anchor.Offset:r.Anchor.Offset+r.Anchor.Length] != r.Name {
					t.Errorf("anchor [%d,+%d) does not cover %q", r.Anchor.Offset, r.Anchor.Length, r.Name)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDetectDoesNotMutateEstablished(t *testing.T) {
	est := NewEstablished("anna")
	NewDetector().Detect(manuscript.Scene{ID: "s1", Text: "A stranger met Marcus."}, est)
	if est.Len() != 1 {
		t.Errorf("established mutated: %v", est)
	}
}

func TestDetectOrderedByOffset(t *testing.T) {
	text := "Tom's knife lay there. The letter burned. Nobody saw it happen."
	refs := NewDetector().Detect(manuscript.Scene{ID: "s1", Text: text}, nil)
	for i := 1; i < len(refs); i++ {
		if refs[i].Anchor.Offset < refs[i-1].Anchor.Offset {
			t.Fatalf("refs out of order: %+v", refs)
		}
	}
}

func TestIntroductions(t *testing.T) {
	got := Introductions("A stranger met Sarah. An hour passed.")
	want := []string{"sarah", "stranger", "hour"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Introductions() = %v, want %v", got, want)
	}
}

func TestIndefiniteSites(t *testing.T) {
	text := "Marcus waited. A stranger handed him a letter."
	got := IndefiniteSites(text)
	want := []Site{{"stranger", 15}, {"letter", 37}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IndefiniteSites() = %+v, want %+v", got, want)
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		ref  manuscript.EntityReference
		want string
	}{
		{manuscript.EntityReference{Canonical: "marcus returned", ReferenceType: manuscript.ReferenceAction}, "marcus"},
		{manuscript.EntityReference{Canonical: "letter", ReferenceType: manuscript.ReferenceDefinite}, "letter"},
		{manuscript.EntityReference{Canonical: "worse than before", ReferenceType: manuscript.ReferenceComparative}, "worse than before"},
	}
	for _, tt := range tests {
		if got := Subject(tt.ref); got != tt.want {
			t.Errorf("Subject(%q) = %q, want %q", tt.ref.Canonical, got, tt.want)
		}
	}
}
