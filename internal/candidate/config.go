package candidate

// Config holds the generator's window sizes, composite thresholds and output
// filter. Every field is overridable from the YAML file or OPENER_CANDIDATE_*.
type Config struct {
	MinHookScore     float64 `yaml:"min_hook_score" env:"MIN_HOOK_SCORE" validate:"gte=0,lte=1"`
	MinWords         int     `yaml:"min_words" env:"MIN_WORDS" validate:"gte=0"`
	MinDialogueRatio float64 `yaml:"min_dialogue_ratio" env:"MIN_DIALOGUE_RATIO" validate:"gte=0,lt=1"`
	MaxCandidates    int     `yaml:"max_candidates" env:"MAX_CANDIDATES" validate:"required,min=1,max=100"`

	TopN        int `yaml:"top_n" env:"TOP_N" validate:"gte=0"`
	TopWindow   int `yaml:"top_window" env:"TOP_WINDOW" validate:"gte=0"`
	POVWindow   int `yaml:"pov_window" env:"POV_WINDOW" validate:"gte=0"`
	PairWindow  int `yaml:"pair_window" env:"PAIR_WINDOW" validate:"gte=0"`
	IntroWindow int `yaml:"intro_window" env:"INTRO_WINDOW" validate:"gte=0"`
	IntroMin    int `yaml:"intro_min" env:"INTRO_MIN" validate:"required,min=1"`

	Composite CompositeThresholds `yaml:"composite" envPrefix:"COMPOSITE_"`
}

// CompositeThresholds classify scenes for the two-scene patterns.
type CompositeThresholds struct {
	LowDialogue     float64 `yaml:"low_dialogue" env:"LOW_DIALOGUE" validate:"gte=0,lte=1"`
	HighDialogue    float64 `yaml:"high_dialogue" env:"HIGH_DIALOGUE" validate:"gte=0,lte=1,gtefield=LowDialogue"`
	QuestionDensity float64 `yaml:"question_density" env:"QUESTION_DENSITY" validate:"gte=0,lte=1"`
	LowAction       float64 `yaml:"low_action" env:"LOW_ACTION" validate:"gte=0,lte=1"`
	HighAction      float64 `yaml:"high_action" env:"HIGH_ACTION" validate:"gte=0,lte=1,gtefield=LowAction"`
}

func DefaultConfig() Config {
	return Config{
		MinHookScore:     0.6,
		MinWords:         500,
		MinDialogueRatio: 0,
		MaxCandidates:    5,
		TopN:             3,
		TopWindow:        10,
		POVWindow:        15,
		PairWindow:       10,
		IntroWindow:      10,
		IntroMin:         3,
		Composite: CompositeThresholds{
			LowDialogue:     0.2,
			HighDialogue:    0.4,
			QuestionDensity: 0.3,
			LowAction:       0.5,
			HighAction:      0.8,
		},
	}
}
