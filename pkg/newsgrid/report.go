package newsgrid

import (
	"time"

	"github.com/cognicore/newsgrid/pkg/newsgrid/assign"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/merge"
	"github.com/cognicore/newsgrid/pkg/newsgrid/summary"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// Report is everything one analysis session produced
type Report struct {
	Session     string
	Started     time.Time
	Finished    time.Time
	Matrix      *matrix.Matrix
	Topics      *topic.Set // merged topics when merging ran
	Assignment  assign.Result
	Merge       *merge.Result // nil when merging is disabled
	Summaries   map[string]*summary.Summary
	TermWeights map[string][]summary.TermWeight
	Histogram   *topic.Histogram
	Errors      map[string]error // per cell ID
}

// View is the JSON rendering of a report
type View struct {
	Session   string      `json:"session"`
	Started   time.Time   `json:"started"`
	Finished  time.Time   `json:"finished"`
	Rows      []AxisView  `json:"rows"`
	Cols      []AxisView  `json:"cols"`
	Cells     []CellView  `json:"cells"`
	Topics    []TopicView `json:"topics"`
	Clusters  [][]int     `json:"merged_clusters,omitempty"`
	Histogram []int       `json:"term_probability_histogram"`
}

// AxisView is one dimension value with its document count
type AxisView struct {
	Label string `json:"label"`
	Docs  int    `json:"docs"`
}

// CellView is one rendered cell
type CellView struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Row        string               `json:"row"`
	Col        string               `json:"col"`
	Total      int                  `json:"total"`
	SampleSize int                  `json:"sample_size"`
	Topics     []topic.Score        `json:"topics"`
	Summary    *summary.Summary     `json:"summary,omitempty"`
	Terms      []summary.TermWeight `json:"tfidf_terms,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// TopicView is one rendered topic
type TopicView struct {
	ID    int          `json:"id"`
	Top   []topic.Term `json:"top"`
	Mass  float64      `json:"mass"`
	Cells []string     `json:"cells"`
}

// UsedTopics returns the topics assigned to at least one cell, after any
// merge. Pruning is left to the caller; Topics stays complete.
func (r *Report) UsedTopics() *topic.Set {
	if r.Topics == nil {
		return topic.NewSet()
	}
	used := make(map[int]struct{})
	if r.Matrix != nil {
		for _, c := range r.Matrix.Cells() {
			for _, s := range c.Topics() {
				used[s.Topic] = struct{}{}
			}
		}
	}
	return r.Topics.Subset(used)
}

// View renders the report for JSON output.
func (r *Report) View() View {
	v := View{
		Session:  r.Session,
		Started:  r.Started,
		Finished: r.Finished,
	}
	if r.Histogram != nil {
		v.Histogram = r.Histogram.Counts()
	}
	if r.Merge != nil {
		v.Clusters = r.Merge.Clusters
	}

	if m := r.Matrix; m != nil {
		v.Rows = axis(m.RowLabels(), m.RowDocCounts())
		v.Cols = axis(m.ColLabels(), m.ColDocCounts())
		for _, c := range m.Cells() {
			cv := CellView{
				ID:         c.ID(),
				Name:       c.Name(),
				Row:        c.Row().Label(),
				Col:        c.Col().Label(),
				Total:      c.Total(),
				SampleSize: c.SampleSize(),
				Topics:     c.Topics(),
				Summary:    r.Summaries[c.ID()],
				Terms:      r.TermWeights[c.ID()],
			}
			if err := r.Errors[c.ID()]; err != nil {
				cv.Error = err.Error()
			}
			v.Cells = append(v.Cells, cv)
		}
	}

	if r.Topics != nil {
		for _, t := range r.Topics.All() {
			v.Topics = append(v.Topics, TopicView{
				ID:    t.ID,
				Top:   t.Top(),
				Mass:  t.Mass(),
				Cells: t.Cells(),
			})
		}
	}
	return v
}

func axis(labels []string, counts []int) []AxisView {
	out := make([]AxisView, len(labels))
	for i, l := range labels {
		out[i] = AxisView{Label: l}
		if i < len(counts) {
			out[i].Docs = counts[i]
		}
	}
	return out
}
