// Package jobfile holds YAML batch conversion plans.
package jobfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ghodss/yaml"
	"github.com/notargets/meshxdr/mesh/readers"
	"github.com/notargets/meshxdr/mesh/xdrio"
)

// Job converts one mesh file
type Job struct {
	Input  string `json:"Input"`
	Output string `json:"Output"`
	Format string `json:"Format"`           // DEAL, MGF or LIBM
	Binary *bool  `json:"Binary,omitempty"` // Overrides the plan's encoding
}

// Plan is a batch of conversions read from a YAML job file
type Plan struct {
	Title  string `json:"Title"`
	Binary bool   `json:"Binary"`
	Jobs   []Job  `json:"Jobs"`
}

// Load reads and checks the plan stored at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &Plan{}
	if err = p.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Plan) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, p); err != nil {
		return err
	}
	return p.Validate()
}

// Validate checks that every job names its files and a known format.
func (p *Plan) Validate() error {
	if len(p.Jobs) == 0 {
		return errors.New("plan has no jobs")
	}
	for i, j := range p.Jobs {
		if j.Input == "" || j.Output == "" {
			return fmt.Errorf("job %d: Input and Output are required", i)
		}
		if _, err := xdrio.ParseFormat(j.Format); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
	}
	return nil
}

// BinaryFor is the encoding job i is written in.
func (p *Plan) BinaryFor(i int) bool {
	if b := p.Jobs[i].Binary; b != nil {
		return *b
	}
	return p.Binary
}

func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", p.Title)
	fmt.Fprintf(w, "[%v]\t\t\t= Binary\n", p.Binary)
	for i, j := range p.Jobs {
		fmt.Fprintf(w, "Jobs[%d] = %s -> %s [%s binary=%v]\n",
			i, j.Input, j.Output, j.Format, p.BinaryFor(i))
	}
}

// Outcome is the result of one job
type Outcome struct {
	Job    Job
	Result xdrio.Result
	Err    error
}

// Run executes every job in order. A failed job does not stop the batch;
// the returned error joins all job failures.
func (p *Plan) Run(logger *log.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	var (
		outcomes = make([]Outcome, len(p.Jobs))
		errs     []error
	)
	for i, j := range p.Jobs {
		outcomes[i] = Outcome{Job: j}
		res, err := p.runJob(i, logger)
		outcomes[i].Result, outcomes[i].Err = res, err
		if err != nil {
			logger.Error("job failed", "job", i, "input", j.Input, "err", err)
			errs = append(errs, fmt.Errorf("job %d: %w", i, err))
			continue
		}
		logger.Info("converted", "input", j.Input, "output", j.Output,
			"format", res.Format, "flattened", res.Flattened)
	}
	return outcomes, errors.Join(errs...)
}

func (p *Plan) runJob(i int, logger *log.Logger) (xdrio.Result, error) {
	j := p.Jobs[i]
	f, err := xdrio.ParseFormat(j.Format)
	if err != nil {
		return xdrio.Result{}, err
	}
	m, err := readers.ReadMeshFile(j.Input, xdrio.WithLogger(logger))
	if err != nil {
		return xdrio.Result{}, err
	}
	return xdrio.New(p.BinaryFor(i), xdrio.WithLogger(logger)).Write(j.Output, f, m)
}
