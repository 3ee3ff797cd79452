package manuscript

// Scene is one segmented unit of the normalized manuscript. Offsets index into
// the normalized manuscript text; EndOffset is exclusive.
type Scene struct {
	ID            string  `json:"id"`
	ChapterID     string  `json:"chapterId"`
	StartOffset   int     `json:"startOffset"`
	EndOffset     int     `json:"endOffset"`
	Text          string  `json:"text"`
	WordCount     int     `json:"wordCount"`
	DialogueRatio float64 `json:"dialogueRatio"`
}

// Anchor locates a span inside a scene. Offset is relative to Scene.Text.
type Anchor struct {
	SceneID string `json:"sceneId"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
}

// Reveal is an atomic narrative fact and the scene that first establishes it.
type Reveal struct {
	ID                   string   `json:"id"`
	Description          string   `json:"description"`
	FirstExposureSceneID string   `json:"firstExposureSceneId"`
	PreReqs              []string `json:"preReqs"`
	Subject              string   `json:"subject,omitempty"`
	Anchors              []string `json:"anchors,omitempty"`
}

// Category classifies what an entity reference points at.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryLocation  Category = "location"
	CategoryObject    Category = "object"
	CategoryEvent     Category = "event"
	CategoryConcept   Category = "concept"
)

// ReferenceType is the lexical form that makes a reference presuppose context.
type ReferenceType string

const (
	ReferencePronoun     ReferenceType = "pronoun"
	ReferenceDefinite    ReferenceType = "definite"
	ReferencePossessive  ReferenceType = "possessive"
	ReferenceAction      ReferenceType = "action"
	ReferenceComparative ReferenceType = "comparative"
)

// EntityReference is one occurrence of a context-presupposing reference.
type EntityReference struct {
	Name          string        `json:"name"`
	Canonical     string        `json:"canonical"`
	Category      Category      `json:"category"`
	ReferenceType ReferenceType `json:"referenceType"`
	Anchor        Anchor        `json:"anchor"`
	Context       string        `json:"context"`
}

type CandidateType string

const (
	CandidateSingle    CandidateType = "single"
	CandidateComposite CandidateType = "composite"
	CandidateSequence  CandidateType = "sequence"
)

// CandidateTypeFor returns the candidate type for a span of n scenes.
func CandidateTypeFor(n int) CandidateType {
	switch {
	case n <= 1:
		return CandidateSingle
	case n == 2:
		return CandidateComposite
	default:
		return CandidateSequence
	}
}

// OpeningCandidate is an alternate starting point spanning contiguous scenes.
type OpeningCandidate struct {
	ID              string        `json:"id"`
	Type            CandidateType `json:"type"`
	Scenes          []string      `json:"scenes"`
	StartOffset     int           `json:"startOffset"`
	EndOffset       int           `json:"endOffset"`
	TotalWords      int           `json:"totalWords"`
	HookScore       float64       `json:"hookScore"`
	ActionDensity   float64       `json:"actionDensity"`
	MysteryQuotient float64       `json:"mysteryQuotient"`
	CharacterIntros int           `json:"characterIntros"`
	DialogueRatio   float64       `json:"dialogueRatio"`
	Pattern         string        `json:"pattern,omitempty"`
}

type ViolationKind string

const (
	// ViolationSkipped means the fact is established before the candidate starts.
	ViolationSkipped ViolationKind = "skipped"
	// ViolationForward means the fact is established after the referencing point.
	ViolationForward ViolationKind = "forward"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type SpoilerLocation struct {
	Anchor
	Sentence string `json:"sentence"`
}

type SpoilerViolation struct {
	ID                   string          `json:"id"`
	CandidateID          string          `json:"candidateId"`
	RevealID             string          `json:"revealId"`
	Kind                 ViolationKind   `json:"kind"`
	Location             SpoilerLocation `json:"location"`
	FirstExposureSceneID string          `json:"firstExposureSceneId"`
	Severity             Severity        `json:"severity"`
	SeverityScore        float64         `json:"severityScore"`
	SuggestedFix         string          `json:"suggestedFix"`
}

type RequiredInfo struct {
	Facts       []string `json:"facts"`
	TargetWords int      `json:"targetWords"`
}

type ContextGap struct {
	ID           string          `json:"id"`
	CandidateID  string          `json:"candidateId"`
	Category     Category        `json:"category"`
	Entity       EntityReference `json:"entity"`
	RequiredInfo RequiredInfo    `json:"requiredInfo"`
	Location     Anchor          `json:"location"`
}

type BurdenMetrics struct {
	TotalChangePercent   float64               `json:"totalChangePercent"`
	SpoilerCount         int                   `json:"spoilerCount"`
	GapCount             int                   `json:"gapCount"`
	EstimatedWords       float64               `json:"estimatedWords"`
	CandidateWords       int                   `json:"candidateWords"`
	ViolationsBySeverity map[Severity]int      `json:"violationsBySeverity"`
	ViolationsByKind     map[ViolationKind]int `json:"violationsByKind"`
	GapsByCategory       map[Category]int      `json:"gapsByCategory"`
	GapsByReferenceType  map[ReferenceType]int `json:"gapsByReferenceType"`
}

// EditBurden estimates the rewriting needed to make a candidate coherent.
type EditBurden struct {
	CandidateID string             `json:"candidateId"`
	Violations  []SpoilerViolation `json:"violations"`
	Gaps        []ContextGap       `json:"gaps"`
	Metrics     BurdenMetrics      `json:"metrics"`
}
