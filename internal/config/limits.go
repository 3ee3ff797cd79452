package config

import "time"

type Limits struct {
	Workers          int           `yaml:"workers" env:"WORKERS" validate:"required,min=1,max=100"`
	CandidateTimeout time.Duration `yaml:"candidate_timeout" env:"CANDIDATE_TIMEOUT" validate:"required,min=1s,max=1h"`
	TotalTimeout     time.Duration `yaml:"total_timeout" env:"TOTAL_TIMEOUT" validate:"required,min=1s,max=24h"`
	ProgressInterval time.Duration `yaml:"progress_interval" env:"PROGRESS_INTERVAL" validate:"min=0,max=1h"`
}

// Decision bands the edit burden into accept, revise and reject.
type Decision struct {
	AcceptBelow float64 `yaml:"accept_below" env:"ACCEPT_BELOW" validate:"gte=0,lte=1"`
	RejectAbove float64 `yaml:"reject_above" env:"REJECT_ABOVE" validate:"gte=0,lte=1,gtfield=AcceptBelow"`
}

func DefaultLimits() Limits {
	return Limits{
		Workers:          4,
		CandidateTimeout: 30 * time.Second,
		TotalTimeout:     5 * time.Minute,
		ProgressInterval: 2 * time.Second,
	}
}

func DefaultDecision() Decision {
	return Decision{
		AcceptBelow: 0.10,
		RejectAbove: 0.35,
	}
}
