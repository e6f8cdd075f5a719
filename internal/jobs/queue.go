package jobs

// Queue provides an abstraction for enqueueing background jobs
type Queue interface {
	EnqueueStatsRefresh(deckID int64) error
}
