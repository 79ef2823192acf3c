package comet

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"teaptrack-backend/lib/scrapers/comet/core"
	"teaptrack-backend/lib/scrapers/comet/extract"
	"teaptrack-backend/services/tracker"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/comet")

// grade-report page ids for the 8 curriculum modules
var moduleReportIds = []string{"325", "326", "327", "332", "333", "328", "330", "329"}

const (
	dashboardPath = "/totara/dashboard/index.php"

	DefaultRequestDelay = time.Second * 10

	phaseGenericLabel = "Getting generic data (Step 1 of 2)"
	phaseDetailLabel  = "Getting specific competency data (Step 2 of 2)"
)

type Options struct {
	// wait before the first retry of a failed fetch
	RetryBaseDelay time.Duration
	// pause between successive successful fetches,
	// DefaultRequestDelay when zero
	RequestDelay time.Duration
	Sink         core.Sink
}

// Scraper drives one full extraction run against the LMS. Strictly
// sequential, the phases depend on each other and the site is
// rate-limited by the inter-request delay.
type Scraper struct {
	fetcher core.Fetcher
	delay   time.Duration
	sink    core.Sink
}

func NewScraper(client *core.Client, opts Options) Scraper {
	sink := opts.Sink
	if sink == nil {
		sink = core.NopSink{}
	}
	delay := opts.RequestDelay
	if delay == 0 {
		delay = DefaultRequestDelay
	}
	return Scraper{
		fetcher: core.Fetcher{
			Client:    client,
			BaseDelay: opts.RetryBaseDelay,
			Sink:      sink,
		},
		delay: delay,
		sink:  sink,
	}
}

// Run performs the whole extraction: profile, the 8 module grade
// reports, then every competency's detail page. It returns either a
// complete dataset or an error, never a partial dataset. Failures on
// a single detail page degrade that record and continue; everything
// else is fatal.
func (s Scraper) Run(ctx context.Context) (*tracker.CompetencyDataset, error) {
	ctx, span := tracer.Start(ctx, "scraper:Run")
	defer span.End()

	ds := &tracker.CompetencyDataset{
		Points: tracker.NewModulePointsSnapshot(),
	}

	err := s.runIdentityPhase(ctx, ds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity phase failed")
		return nil, err
	}
	err = s.runModulePhase(ctx, ds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "module phase failed")
		return nil, err
	}
	err = s.runDetailPhase(ctx, ds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail phase failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("competencies", len(ds.Competencies)))
	return ds, nil
}

func (s Scraper) pause(ctx context.Context) error {
	return core.Sleep(ctx, s.delay)
}

func (s Scraper) runIdentityPhase(ctx context.Context, ds *tracker.CompetencyDataset) error {
	ctx, span := tracer.Start(ctx, "scraper:identityPhase")
	defer span.End()

	s.sink.Emit(core.Event{Kind: core.EventStepCount, Steps: len(moduleReportIds) + 2})
	s.sink.Emit(core.Event{Kind: core.EventStepIndex, Step: 1})
	s.sink.Emit(core.Event{Kind: core.EventPhase, Phase: phaseGenericLabel})

	dashboard, err := s.fetcher.Fetch(ctx, dashboardPath)
	if err != nil {
		return err
	}
	userID, profileUrl, err := extract.ProfileLink(dashboard)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "found profile link", "user_id", userID)

	if err := s.pause(ctx); err != nil {
		return err
	}
	s.sink.Emit(core.Event{Kind: core.EventStepIndex, Step: 2})

	profilePage, err := s.fetcher.Fetch(ctx, profileUrl)
	if err != nil {
		return err
	}
	identity, err := extract.Profile(profilePage)
	if err != nil {
		return err
	}

	ds.Profile = tracker.ProfileData{
		UserID:        userID,
		Name:          identity.Name,
		StartDate:     identity.StartDate,
		ProgramLength: identity.ProgramLength,
	}
	slog.InfoContext(ctx, "extracted profile",
		"name", identity.Name,
		"program_years", identity.ProgramLength,
	)

	return s.pause(ctx)
}

func (s Scraper) runModulePhase(ctx context.Context, ds *tracker.CompetencyDataset) error {
	ctx, span := tracer.Start(ctx, "scraper:modulePhase")
	defer span.End()

	for i, reportId := range moduleReportIds {
		url := fmt.Sprintf(
			"/grade/report/user/index.php?id=%s&userid=%s",
			reportId, ds.Profile.UserID,
		)
		doc, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		report, err := extract.ParseGradeReport(doc)
		if err != nil {
			return fmt.Errorf("grade report %s: %w", reportId, err)
		}

		for _, a := range report.Assignments {
			ds.Competencies = append(ds.Competencies, tracker.CompetencyRecord{
				Name:      a.Name,
				Score:     a.Score,
				Feedback:  a.Feedback,
				SourceUrl: a.SourceUrl,
			})
		}
		for _, m := range report.Means {
			ds.Points.SetModuleMean(m.Module, m.Category, m.Score)
		}
		for _, m := range report.WeightedMeans {
			ds.Points.SetSummaryMean(m.Module, m.Category, m.Score)
		}
		slog.DebugContext(ctx, "parsed grade report",
			"report_id", reportId,
			"assignments", len(report.Assignments),
		)

		s.sink.Emit(core.Event{Kind: core.EventStepIndex, Step: i + 3})

		if i+1 != len(moduleReportIds) {
			if err := s.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Scraper) runDetailPhase(ctx context.Context, ds *tracker.CompetencyDataset) error {
	ctx, span := tracer.Start(ctx, "scraper:detailPhase")
	defer span.End()

	s.sink.Emit(core.Event{Kind: core.EventStepCount, Steps: len(ds.Competencies)})
	s.sink.Emit(core.Event{Kind: core.EventStepIndex, Step: 0})
	s.sink.Emit(core.Event{Kind: core.EventPhase, Phase: phaseDetailLabel})

	for i := range ds.Competencies {
		record := &ds.Competencies[i]

		doc, err := s.fetcher.Fetch(ctx, record.SourceUrl)
		if err != nil {
			return err
		}
		s.enrich(ctx, doc, record)

		if i+1 != len(ds.Competencies) {
			if err := s.pause(ctx); err != nil {
				return err
			}
		}
		s.sink.Emit(core.Event{Kind: core.EventStepIndex, Step: i + 1})
	}
	return nil
}

// enrich applies one detail page to its record. Anything that goes
// wrong inside the detail extractor is contained at this record's
// boundary: the record degrades to Invalid statuses and the run moves
// on.
func (s Scraper) enrich(ctx context.Context, doc *goquery.Document, record *tracker.CompetencyRecord) {
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "detail extraction blew up, degrading record",
				"name", record.Name,
				"panic", r,
			)
			record.SubmissionStatus = tracker.StatusInvalid
			record.GradingStatus = tracker.StatusInvalid
			record.LastModified = nil
			record.GradeDate = nil
			record.Assessor = ""
		}
	}()

	detail := extract.ParseDetail(doc, record.Name)
	record.SubmissionStatus = detail.SubmissionStatus
	record.GradingStatus = detail.GradingStatus
	record.LastModified = detail.LastModified
	record.GradeDate = detail.GradeDate
	record.Assessor = detail.Assessor
}
