package publish

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CTAG07/Crossero/pkg/export"
	"github.com/CTAG07/Crossero/pkg/manifest"
	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/CTAG07/Crossero/pkg/schedule"
	"github.com/CTAG07/Crossero/pkg/site"
	"github.com/CTAG07/Crossero/pkg/templating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDB = `const QUIZ_DATABASE = {
  "a": { title: "창세기: 천지창조", category: "성경", allWords: [ { clue: "c1", answer: "x" } ] },
  "b": { title: "창세기: 천지창조", allWords: [ { clue: "c2", answer: "y" }, { clue: "c3", answer: "z" } ] },
  "c": { title: "룻기: 이삭줍기", allWords: [ { clue: "보아스", answer: "보아스" } ] },
};`

type fixture struct {
	dir       string
	schedules *schedule.FileStore
	manifests *manifest.FileStore
	site      *site.Site
	driver    *Driver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	catalog := puzzledata.NewCatalog(nil)
	catalog.AddAll(puzzledata.Extract(testDB).Puzzles)
	require.Equal(t, 3, catalog.Len())

	tcfg := templating.DefaultConfig()
	tcfg.Domain = "https://crossero.com"
	tm, err := templating.NewTemplateManager(nil, &tcfg)
	require.NoError(t, err)

	scfg := site.DefaultConfig()
	scfg.PostsDir = filepath.Join(dir, "posts")
	scfg.SitemapPath = filepath.Join(dir, "posts.xml")
	s := site.New(nil, tm, scfg, rand.New(rand.NewPCG(7, 7)))

	f := &fixture{
		dir:       dir,
		schedules: schedule.NewFileStore(filepath.Join(dir, "posts_schedule.json")),
		manifests: manifest.NewFileStore(filepath.Join(dir, "published_manifest.json")),
		site:      s,
	}
	f.driver = &Driver{
		Schedules: f.schedules,
		Manifests: f.manifests,
		Source:    catalog,
		Site:      s,
		Fallback:  export.NewGridExporter(filepath.Join(dir, "images", "puzzles"), 0, 0),
		Clock:     func() time.Time { return time.Date(2026, 2, 20, 9, 0, 0, 0, time.Local) },
	}
	return f
}

func (f *fixture) saveSchedule(t *testing.T, s schedule.Schedule) {
	t.Helper()
	require.NoError(t, f.schedules.Save(s))
}

func (f *fixture) entries(t *testing.T) []manifest.Entry {
	t.Helper()
	m, err := f.manifests.Load()
	require.NoError(t, err)
	return m.Entries()
}

func (f *fixture) postExists(slug string) bool {
	_, err := os.Stat(filepath.Join(f.dir, "posts", slug+".html"))
	return err == nil
}

func TestScheduleThenPublishTwoDays(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	sched, err := schedule.NewBuilder(1).Build([]string{"a", "b"}, start, 1, 1)
	require.NoError(t, err)
	require.Equal(t, schedule.Schedule{"2026-02-20": {"a"}, "2026-02-21": {"b"}}, sched)
	f.saveSchedule(t, sched)

	ctx := context.Background()
	res, err := f.driver.Run(ctx, f.driver.Today())
	require.NoError(t, err)
	assert.Equal(t, StatePublishing, res.State)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Published, 1)

	res, err = f.driver.Run(ctx, "2026-02-21")
	require.NoError(t, err)
	require.Len(t, res.Published, 1)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, manifest.Entry{Slug: "창세기-천지창조", Date: "2026-02-20", ID: "a", Title: "창세기: 천지창조"}, entries[0])
	assert.Equal(t, "창세기-천지창조-b", entries[1].Slug)
	assert.True(t, f.postExists("창세기-천지창조"))
	assert.True(t, f.postExists("창세기-천지창조-b"))
	assert.FileExists(t, filepath.Join(f.dir, "images", "puzzles", "창세기-천지창조-십자가로세로.png"))
	assert.FileExists(t, filepath.Join(f.dir, "images", "puzzles", "창세기-천지창조-b-십자가로세로.png"))

	images, err := os.ReadDir(filepath.Join(f.dir, "images", "puzzles"))
	require.NoError(t, err)
	assert.Len(t, images, 2, "posts sharing a title get their own image")

	second, err := os.ReadFile(filepath.Join(f.dir, "posts", "창세기-천지창조-b.html"))
	require.NoError(t, err)
	src := strings.ToLower(url.PathEscape("창세기-천지창조-b-십자가로세로.png"))
	assert.Contains(t, strings.ToLower(string(second)), src, "the second post links its own image")
}

func TestRepublishSameDateIsNoop(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"a", "c"}})
	ctx := context.Background()

	_, err := f.driver.Run(ctx, "2026-02-20")
	require.NoError(t, err)
	before := f.entries(t)
	sitemapBefore, err := os.ReadFile(filepath.Join(f.dir, "posts.xml"))
	require.NoError(t, err)

	res, err := f.driver.Run(ctx, "2026-02-20")
	require.NoError(t, err)
	assert.Empty(t, res.Published)
	assert.Equal(t, []string{"a", "c"}, res.AlreadyPublished)
	assert.Equal(t, before, f.entries(t))

	sitemapAfter, err := os.ReadFile(filepath.Join(f.dir, "posts.xml"))
	require.NoError(t, err)
	assert.Equal(t, sitemapBefore, sitemapAfter)

	posts, err := os.ReadDir(filepath.Join(f.dir, "posts"))
	require.NoError(t, err)
	assert.Len(t, posts, 3, "two posts plus the board")
}

func TestSlugCollisionWithinOneBucket(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"a", "b"}})

	res, err := f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err)
	require.Len(t, res.Published, 2)
	assert.Equal(t, "창세기-천지창조", res.Published[0].Slug)
	assert.Equal(t, "창세기-천지창조-b", res.Published[1].Slug)
}

func TestNothingDueRegeneratesArtifacts(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"a"}})
	require.NoError(t, f.manifests.Save(manifest.New([]manifest.Entry{{Slug: "old", Date: "2026-01-01", ID: "old", Title: "예전 글"}})))

	for _, date := range []string{"2026-03-01", "2026-02-19"} {
		require.NoError(t, os.RemoveAll(filepath.Join(f.dir, "posts.xml")))
		res, err := f.driver.Run(context.Background(), date)
		require.NoError(t, err)
		assert.Equal(t, StateNothingDue, res.State)
		assert.Len(t, f.entries(t), 1, "manifest is unchanged")

		sitemap, err := os.ReadFile(filepath.Join(f.dir, "posts.xml"))
		require.NoError(t, err, "index artifacts are still regenerated")
		assert.Contains(t, string(sitemap), "/posts/old.html")
		assert.FileExists(t, filepath.Join(f.dir, "posts", "index.html"))
	}
}

func TestNoSchedule(t *testing.T) {
	f := newFixture(t)
	res, err := f.driver.Run(context.Background(), "2026-02-20")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrNoSchedule))
	require.NotNil(t, res)
	assert.Equal(t, StateNoSchedule, res.State)
	assert.Contains(t, res.Message, "init")
	assert.NoFileExists(t, filepath.Join(f.dir, "posts.xml"))
}

type stubExporter struct {
	available error
	fail      error
	calls     int
}

func (s *stubExporter) Name() string { return "stub" }

func (s *stubExporter) Available(context.Context) error { return s.available }

func (s *stubExporter) Export(_ context.Context, _, name string, _ int) (*export.Result, error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	return &export.Result{
		ImageName: name + ".png",
		Across:    []string{"빛"},
		Down:      []string{"땅"},
		AnswerURL: "https://crossero.com/play2.html?play=1&g=G",
	}, nil
}

func TestMissingCapability(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"a", "b"}})
	browser := &stubExporter{available: export.ErrUnavailable}
	f.driver.Exporter = browser
	f.driver.RequireExporter = true

	res, err := f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err, "a missing capability is not a process failure")
	assert.Equal(t, StateMissingCapability, res.State)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.Published)
	assert.Zero(t, browser.calls)
	assert.Empty(t, f.entries(t))
	assert.FileExists(t, filepath.Join(f.dir, "posts.xml"))
	assert.False(t, f.postExists("창세기-천지창조"))
}

func TestExporterFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"a", "c"}})
	f.driver.Exporter = &stubExporter{fail: errors.New("timeout")}
	f.driver.RequireExporter = true

	res, err := f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err)
	require.Len(t, res.Published, 2)

	data, err := os.ReadFile(filepath.Join(f.dir, "posts", "룻기-이삭줍기.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "이 주제 퍼즐 풀어보기", "grid fallback carries no answer link")
	assert.FileExists(t, filepath.Join(f.dir, "images", "puzzles", "룻기-이삭줍기-십자가로세로.png"))
}

func TestExporterSuccessLinksSamePuzzle(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"c"}})
	f.driver.Exporter = &stubExporter{}

	_, err := f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(f.dir, "posts", "룻기-이삭줍기.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "▶ 이 퍼즐 풀어보기 (새창)")
}

// failingSite wraps a Site and refuses to write one slug.
type failingSite struct {
	Site
	failSlug string
}

func (s failingSite) WritePost(page templating.PostPage) (string, error) {
	if page.Slug == s.failSlug {
		return "", errors.New("disk full")
	}
	return s.Site.WritePost(page)
}

func TestPerRecordFailuresDoNotAbortBucket(t *testing.T) {
	f := newFixture(t)
	f.saveSchedule(t, schedule.Schedule{"2026-02-20": {"ghost", "a", "c"}})
	f.driver.Site = failingSite{Site: f.site, failSlug: "창세기-천지창조"}

	res, err := f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, res.Unknown)
	assert.Equal(t, []string{"a"}, res.Failed)
	require.Len(t, res.Published, 1)
	assert.Equal(t, "c", res.Published[0].ID)

	// The failed record is retried on the next run of the same date.
	f.driver.Site = f.site
	res, err = f.driver.Run(context.Background(), "2026-02-20")
	require.NoError(t, err)
	require.Len(t, res.Published, 1)
	assert.Equal(t, "a", res.Published[0].ID)
	assert.Equal(t, []string{"c"}, res.AlreadyPublished)
}

func TestInvalidDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.driver.Run(context.Background(), "2026/02/20")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRebuildFromManifest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.manifests.Save(manifest.New([]manifest.Entry{{Slug: "x", Date: "2026-02-20", ID: "a", Title: "X"}})))
	require.NoError(t, f.driver.Rebuild(context.Background()))
	data, err := os.ReadFile(filepath.Join(f.dir, "posts.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<loc>https://crossero.com/posts/x.html</loc>")
}
