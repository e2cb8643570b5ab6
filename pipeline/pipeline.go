// Package pipeline wires fetching, classification, ranking, and persistence
// into one sequential run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mobilitydesk/policyfeed/config"
	"github.com/mobilitydesk/policyfeed/feed"
	"github.com/mobilitydesk/policyfeed/news"
	"github.com/mobilitydesk/policyfeed/rules"
	"github.com/mobilitydesk/policyfeed/sources"
	"github.com/mobilitydesk/policyfeed/store"
)

// Report summarizes one run.
type Report struct {
	RunID             string
	FeedsFetched      int
	FeedsFailed       int
	FeedsUnchanged    int
	EntriesSeen       int
	EntriesKept       int
	ItemsPublished    int
	FilesWritten      int
	PreservedExisting bool
	Duration          time.Duration
}

// Pipeline runs the whole poll cycle. Feeds are processed one at a time;
// a failing feed contributes nothing and the run continues.
type Pipeline struct {
	cfg        *config.Config
	feeds      []string
	fetcher    *feed.Fetcher
	extractor  *feed.Extractor
	classifier *rules.Classifier
	writer     *store.Writer
	state      *store.StateStore
	logger     *zap.Logger
}

// New assembles a pipeline from configuration. The state store is optional;
// Close releases it.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ruleset := rules.Default()
	if cfg.Rules.File != "" {
		loaded, err := rules.Load(cfg.Rules.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load ruleset: %w", err)
		}
		ruleset = loaded
		logger.Info("loaded ruleset override", zap.String("file", cfg.Rules.File))
	}

	feedList := sources.DefaultFeeds
	if len(cfg.Sources.Feeds) > 0 {
		feedList = cfg.Sources.Feeds
	}
	if cfg.Sources.ExtraFile != "" {
		extra, err := sources.LoadFile(cfg.Sources.ExtraFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load extra sources: %w", err)
		}
		feedList = sources.Merge(feedList, extra)
	}

	var prober *feed.Prober
	if cfg.Fetch.ProbePages {
		prober = feed.NewProber(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, logger)
	}

	var state *store.StateStore
	if cfg.State.Path != "" {
		s, err := store.NewStateStore(cfg.State.Path)
		if err != nil {
			return nil, err
		}
		state = s
	}

	return &Pipeline{
		cfg:        cfg,
		feeds:      feedList,
		fetcher:    feed.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, logger),
		extractor:  feed.NewExtractor(prober, logger),
		classifier: rules.NewClassifier(ruleset),
		writer:     store.NewWriter(cfg.Output.Path, cfg.Output.PageSize, cfg.Output.MaxPages, logger),
		state:      state,
		logger:     logger,
	}, nil
}

// Close releases the state store if one is open.
func (p *Pipeline) Close() error {
	if p.state != nil {
		return p.state.Close()
	}
	return nil
}

// Classifier exposes the rules for the check command.
func (p *Pipeline) Classifier() *rules.Classifier {
	return p.classifier
}

// Feeds returns the resolved feed URL list.
func (p *Pipeline) Feeds() []string {
	return p.feeds
}

// State returns the fetch-state store, or nil when disabled.
func (p *Pipeline) State() *store.StateStore {
	return p.state
}

// Run executes one fetch/classify/write cycle.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := p.logger.With(zap.String("run_id", report.RunID))
	log.Info("run started", zap.Int("feeds", len(p.feeds)))

	cutoff := start.AddDate(0, 0, -p.cfg.Fetch.WindowDays)

	var candidates []news.Item
	for _, feedURL := range p.feeds {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		kept, seen, err := p.processFeed(ctx, log, feedURL, cutoff, &candidates)
		switch {
		case errors.Is(err, errFeedUnchanged):
			report.FeedsUnchanged++
		case err != nil:
			// One bad feed never aborts the run.
			log.Warn("feed failed, skipping",
				zap.String("url", feedURL),
				zap.Error(err))
			report.FeedsFailed++
			p.recordFailure(log, feedURL, err)
			continue
		default:
			report.FeedsFetched++
		}
		report.EntriesSeen += seen
		report.EntriesKept += kept
		log.Info("feed processed",
			zap.String("url", feedURL),
			zap.Int("kept", kept),
			zap.Int("seen", seen))
	}

	final := news.Dedupe(candidates, p.cfg.Output.MaxItems)
	report.ItemsPublished = len(final)
	log.Info("ranked candidates",
		zap.Int("before_dedupe", len(candidates)),
		zap.Int("after_dedupe", len(final)),
		zap.Int("max", p.cfg.Output.MaxItems))

	res, err := p.writer.Write(final, start)
	if err != nil {
		return report, fmt.Errorf("failed to write output: %w", err)
	}
	report.FilesWritten = res.FilesWritten
	report.PreservedExisting = res.PreservedExisting
	report.Duration = time.Since(start)

	log.Info("run finished",
		zap.Int("items", report.ItemsPublished),
		zap.Int("files_written", report.FilesWritten),
		zap.Int("feeds_failed", report.FeedsFailed),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// errFeedUnchanged marks a 304 answer; not a failure.
var errFeedUnchanged = errors.New("feed not modified")

// processFeed fetches one feed and appends its accepted entries to the
// accumulator. Returns kept and seen entry counts.
func (p *Pipeline) processFeed(ctx context.Context, log *zap.Logger, feedURL string, cutoff time.Time, acc *[]news.Item) (kept, seen int, err error) {
	cond := p.conditional(log, feedURL)

	result, err := p.fetcher.FetchPages(ctx, feedURL, cond, p.cfg.Fetch.MaxFeedPages, cutoff)
	if err != nil {
		return 0, 0, err
	}
	if result.NotModified {
		log.Debug("feed unchanged", zap.String("url", feedURL))
		p.recordSuccess(log, feedURL, cond.ETag, cond.LastModified)
		return 0, 0, errFeedUnchanged
	}

	for _, entry := range result.Feed.Items {
		if entry.Title == "" {
			continue
		}
		seen++

		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		if !p.classifier.Relevant(entry.Title, summary, entry.Link) {
			continue
		}

		item, ok := p.extractor.Extract(ctx, entry)
		if !ok {
			continue
		}
		item.Category = p.classifier.Categorize(entry.Title, summary)
		*acc = append(*acc, item)
		kept++
	}

	p.recordSuccess(log, feedURL, result.ETag, result.LastModified)
	return kept, seen, nil
}

func (p *Pipeline) conditional(log *zap.Logger, feedURL string) feed.Conditional {
	if p.state == nil {
		return feed.Conditional{}
	}
	st, err := p.state.Get(feedURL)
	if err != nil {
		log.Warn("failed to read feed state", zap.String("url", feedURL), zap.Error(err))
		return feed.Conditional{}
	}
	return feed.Conditional{ETag: st.ETag, LastModified: st.LastModified}
}

func (p *Pipeline) recordSuccess(log *zap.Logger, feedURL, etag, lastModified string) {
	if p.state == nil {
		return
	}
	if err := p.state.RecordSuccess(feedURL, etag, lastModified, time.Now()); err != nil {
		log.Warn("failed to record feed state", zap.String("url", feedURL), zap.Error(err))
	}
}

func (p *Pipeline) recordFailure(log *zap.Logger, feedURL string, fetchErr error) {
	if p.state == nil {
		return
	}
	if err := p.state.RecordFailure(feedURL, time.Now(), fetchErr); err != nil {
		log.Warn("failed to record feed state", zap.String("url", feedURL), zap.Error(err))
	}
}
