package comet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"teaptrack-backend/lib/scrapers/comet/core"
	"teaptrack-backend/lib/telemetry"
	"teaptrack-backend/services/tracker"

	"github.com/stretchr/testify/require"
)

const fixtureDashboard = `
<html><body>
<a href="/user/profile.php?id=42">Profile</a>
</body></html>`

const fixtureProfile = `
<html><body>
<div class="page-header-headings">Jane Citizen</div>
<dl><dt>Program Start</dt><dd>14 February 2022</dd></dl>
<dl><dt>Expected Program End Date</dt><dd>10 February 2025</dd></dl>
</body></html>`

const fixtureGradeReport = `
<html><body>
<table><tbody>
	<tr>
		<th><span class="sr-only">Assignment</span><a href="/mod/assign/view.php?id=900">3.2.1.4</a></th>
		<td>0.5</td>
		<td>ok</td>
	</tr>
	<tr>
		<th><span class="sr-only">Assignment</span><a href="/mod/assign/view.php?id=901">3.2.2.1</a></th>
		<td>-</td>
		<td></td>
	</tr>
	<tr><th>Mean of grades 3.2 total</th><td>0.25</td></tr>
	<tr><th>Weighted mean of grades. Include empty grades. Competency 3.2</th><td>0.2</td></tr>
</tbody></table>
</body></html>`

const fixtureDetail = `
<html><body>
<table><tbody>
	<tr><th>Opened</th><td>Monday, 1 January 2024, 9:00 AM</td></tr>
</tbody></table>
<table><tbody>
	<tr><th>Submission status</th><td>Submitted for grading</td></tr>
	<tr><th>Grading status</th><td>Graded</td></tr>
	<tr><th>Last modified</th><td>Monday, 4 March 2024, 2:15 PM</td></tr>
</tbody></table>
<table><tbody>
	<tr><th>Grade</th><td>1.00</td></tr>
	<tr><th>Graded on</th><td>Tuesday, 5 March 2024, 9:00 AM</td></tr>
	<tr><th>Graded by</th><td>Dr Example</td></tr>
</tbody></table>
</body></html>`

func fixtureServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/totara/dashboard/index.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureDashboard))
	})
	mux.HandleFunc("/user/profile.php", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.URL.Query().Get("id"))
		w.Write([]byte(fixtureProfile))
	})
	mux.HandleFunc("/grade/report/user/index.php", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.URL.Query().Get("userid"))
		w.Write([]byte(fixtureGradeReport))
	})
	mux.HandleFunc("/mod/assign/view.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "901" {
			// a page the detail extractor cannot make sense of
			w.Write([]byte(`<html><body><p>access denied</p></body></html>`))
			return
		}
		w.Write([]byte(fixtureDetail))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScraperRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/comet")
	defer cleanup()

	server := fixtureServer(t)
	client, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)

	sink := core.NewChannelSink()
	scraper := NewScraper(client, Options{
		RetryBaseDelay: time.Millisecond,
		RequestDelay:   time.Millisecond,
		Sink:           sink,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	ds, err := scraper.Run(ctx)
	require.NoError(t, err)
	sink.Close()

	require.Equal(t, "42", ds.Profile.UserID)
	require.Equal(t, "Jane Citizen", ds.Profile.Name)
	require.Equal(t, 2022, ds.Profile.StartDate.Year())
	require.Equal(t, 3, ds.Profile.ProgramLength)

	// 2 assignments per module report, 8 reports
	require.Len(t, ds.Competencies, 16)
	for _, c := range ds.Competencies {
		switch c.Name {
		case "3.2.1.4":
			require.Equal(t, 0.5, c.Score)
			require.Equal(t, "ok", c.Feedback)
			require.Equal(t, "Submitted for grading", c.SubmissionStatus)
			require.Equal(t, "Graded", c.GradingStatus)
			require.NotNil(t, c.LastModified)
			require.NotNil(t, c.GradeDate)
			require.Equal(t, "Dr Example", c.Assessor)
		case "3.2.2.1":
			// its detail page was unreadable, the record degrades
			// without aborting the run
			require.Equal(t, 0.0, c.Score)
			require.Equal(t, tracker.StatusInvalid, c.SubmissionStatus)
			require.Equal(t, tracker.StatusInvalid, c.GradingStatus)
			require.Nil(t, c.LastModified)
			require.Nil(t, c.GradeDate)
		default:
			t.Fatalf("unexpected competency %q", c.Name)
		}
	}

	require.Equal(t, 0.25, ds.Points.Modules["3"]["3.2"])
	require.Equal(t, 0.2, ds.Points.Summary["3"]["3.2"])

	// phases are announced in order
	var phases []string
	for e := range sink.Events() {
		if e.Kind == core.EventPhase {
			phases = append(phases, e.Phase)
		}
	}
	require.Equal(t, []string{phaseGenericLabel, phaseDetailLabel}, phases)
}

func TestScraperRunFailsOnBrokenDashboard(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/comet")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	t.Cleanup(server.Close)

	client, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)

	scraper := NewScraper(client, Options{
		RetryBaseDelay: time.Millisecond,
		RequestDelay:   time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	ds, err := scraper.Run(ctx)
	require.Error(t, err)
	require.Nil(t, ds)
}
