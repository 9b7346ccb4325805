package querysync

// Outcome labels passed to a Recorder.
const (
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeJoin    = "join"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder receives cache and mutation events. Implementations must be safe
// for concurrent use; the prometheus one lives in internal/api/metrics.
type Recorder interface {
	CacheRead(resource, outcome string)
	LoaderCalled(resource string)
	ResultDiscarded(resource string)
	Invalidated(resource string)
	Mutation(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) CacheRead(string, string) {}
func (nopRecorder) LoaderCalled(string)      {}
func (nopRecorder) ResultDiscarded(string)   {}
func (nopRecorder) Invalidated(string)       {}
func (nopRecorder) Mutation(string)          {}
