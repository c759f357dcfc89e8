package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/service"
	"github.com/user/radiodex/internal/testutil"
)

func TestNormalizeLimit(t *testing.T) {
	tests := map[int]int{0: 10, -3: 10, 5: 5, 50: 50, 51: 50, 1000: 50}
	for in, want := range tests {
		if got := service.NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSimilarityService(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewSimilarityService(repos.Station, 100, time.Minute)
	ctx := context.Background()

	all := testutil.Tags{
		Genres:  []string{"rock"},
		Decades: []string{"90s"},
		Topics:  []string{"music"},
		Langs:   []string{"english"},
		Moods:   []string{"energetic"},
	}
	source := testutil.SeedStation(t, db, "Source", all)
	twin := testutil.SeedStation(t, db, "Twin", all)
	moodOnly := testutil.SeedStation(t, db, "Mood Only", testutil.Tags{Moods: []string{"energetic"}})
	bare := testutil.SeedStation(t, db, "Bare", testutil.Tags{})

	t.Run("IdenticalOutranksMoodOnly", func(t *testing.T) {
		similar, err := svc.FindSimilar(ctx, source.ID, 10)
		if err != nil {
			t.Fatalf("FindSimilar: %v", err)
		}
		if len(similar) != 2 {
			t.Fatalf("expected 2 results, got %d", len(similar))
		}
		if similar[0].ID != twin.ID || similar[1].ID != moodOnly.ID {
			t.Errorf("unexpected order: %d, %d", similar[0].ID, similar[1].ID)
		}
		if similar[0].Score <= similar[1].Score {
			t.Errorf("twin score %d should exceed mood-only score %d", similar[0].Score, similar[1].Score)
		}
	})

	t.Run("MissingSource", func(t *testing.T) {
		_, err := svc.FindSimilar(ctx, 9999, 10)
		if appErr, ok := apperror.As(err); !ok || appErr.Type != apperror.NotFoundError {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("SourceWithoutTags", func(t *testing.T) {
		similar, err := svc.FindSimilar(ctx, bare.ID, 10)
		if err != nil {
			t.Fatalf("FindSimilar: %v", err)
		}
		if similar == nil || len(similar) != 0 {
			t.Errorf("expected empty non-nil list, got %v", similar)
		}
	})

	t.Run("CachedUntilInvalidated", func(t *testing.T) {
		first, _ := svc.FindSimilar(ctx, source.ID, 5)
		extra := testutil.SeedStation(t, db, "Late Twin", all)

		cached, _ := svc.FindSimilar(ctx, source.ID, 5)
		if len(cached) != len(first) {
			t.Errorf("cached result changed: %d vs %d", len(cached), len(first))
		}

		if n := svc.Invalidate(); n == 0 {
			t.Error("expected cached entries to be dropped")
		}
		fresh, _ := svc.FindSimilar(ctx, source.ID, 5)
		found := false
		for _, s := range fresh {
			if s.ID == extra.ID {
				found = true
			}
		}
		if !found {
			t.Error("new station missing after invalidation")
		}
	})

	t.Run("ConcurrentCalls", func(t *testing.T) {
		svc.Invalidate()
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.FindSimilar(ctx, source.ID, 10); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("concurrent call failed: %v", err)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		svc.Invalidate()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		// 已取消的 ctx 可能与计算结果竞争，只要求不 panic 且返回值一致
		res, err := svc.FindSimilar(cctx, source.ID, 3)
		if err == nil && len(res) == 0 {
			t.Error("expected either an error or results")
		}
	})
}

func TestCleanupService(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	user := testutil.SeedUser(t, db, "luca", "secret123")
	s := testutil.SeedStation(t, db, "Radio", testutil.Tags{})

	old := &model.PlayHistory{UserID: user.ID, StationID: s.ID, PlayedAt: time.Now().AddDate(0, 0, -40)}
	if err := db.Create(old).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := repos.History.Add(user.ID, s.ID); err != nil {
		t.Fatal(err)
	}

	if service.NewCleanupService(repos, 0).RunOnce() != 0 {
		t.Error("disabled retention must not delete anything")
	}

	removed := service.NewCleanupService(repos, 30).RunOnce()
	if removed != 1 {
		t.Errorf("removed %d rows, want 1", removed)
	}
	if n, _ := repos.History.CountByUser(user.ID); n != 1 {
		t.Errorf("recent entry should remain, count = %d", n)
	}
}

const sampleCSV = `name,url,url_resolved,homepage,favicon,country,countrycode,state,codec,bitrate,geo_lat,geo_long,Music Genre,Decade,Topic,Lang,Mood
Radio Rock , http://rock.example/stream,,,,Italy,IT,Lazio,MP3,128,41.9,12.5,"rock, pop",80s,,italian,energetic
Jazz FM,http://jazz.example/stream,,,,Italy,IT,,AAC,,,,"jazz,rock",,news,"italian, english",calm
,http://noname.example,,,,,,,,,,,,,,,
`

func TestStationImporter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	imp := service.NewStationImporter(db)
	ctx := context.Background()

	res, err := imp.Import(ctx, strings.NewReader(sampleCSV), service.ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Stations != 2 || res.Skipped != 1 {
		t.Errorf("imported %d, skipped %d", res.Stations, res.Skipped)
	}
	if res.Tags["Music Genre"] != 3 {
		t.Errorf("genre tags = %d, want 3", res.Tags["Music Genre"])
	}

	stations, total, err := repos.Station.Search(model.StationFilter{Search: "radio rock"}, model.NewPagination(1, 10, 10))
	if err != nil || total != 1 {
		t.Fatalf("search after import: %v %d", err, total)
	}
	rock := stations[0]
	if rock.Name != "Radio Rock" {
		t.Errorf("name should be trimmed, got %q", rock.Name)
	}
	if rock.Bitrate == nil || *rock.Bitrate != 128 {
		t.Errorf("bitrate = %v", rock.Bitrate)
	}
	if rock.GeoLat == nil || *rock.GeoLat != 41.9 {
		t.Errorf("geo_lat = %v", rock.GeoLat)
	}
	if len(rock.MusicGenres) != 2 || len(rock.Langs) != 1 || len(rock.Topics) != 0 {
		t.Errorf("tags not attached: %+v", rock)
	}

	jazz, _, _ := repos.Station.Search(model.StationFilter{Search: "jazz"}, model.NewPagination(1, 10, 10))
	if len(jazz) != 1 || jazz[0].Bitrate != nil {
		t.Error("empty bitrate should stay null")
	}

	// 再次导入且不重置：标签复用，电台追加
	if _, err := imp.Import(ctx, strings.NewReader(sampleCSV), service.ImportOptions{}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	cat, _ := model.FindTagCategory("genre")
	names, _ := repos.Tag.ListNames(cat)
	if len(names) != 3 {
		t.Errorf("tags duplicated: %v", names)
	}
	if n, _ := repos.Station.Count(); n != 4 {
		t.Errorf("station count = %d, want 4", n)
	}

	// 重置：清空目录及依赖数据，用户保留
	user := testutil.SeedUser(t, db, "marco", "secret123")
	if _, err := repos.Favorite.Add(user.ID, rock.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := imp.Import(ctx, strings.NewReader(sampleCSV), service.ImportOptions{Reset: true}); err != nil {
		t.Fatalf("reset import: %v", err)
	}
	if n, _ := repos.Station.Count(); n != 2 {
		t.Errorf("station count after reset = %d, want 2", n)
	}
	if n, _ := repos.Favorite.CountByUser(user.ID); n != 0 {
		t.Error("favorites should be cleared with the catalog")
	}
	if u, _ := repos.User.FindByID(user.ID); u == nil {
		t.Error("users must survive a reset")
	}
}

func TestStationImporterBadInput(t *testing.T) {
	db := testutil.NewTestDB(t)
	imp := service.NewStationImporter(db)

	if _, err := imp.Import(context.Background(), strings.NewReader(""), service.ImportOptions{}); err == nil {
		t.Error("empty file should fail")
	}
	if _, err := imp.Import(context.Background(), strings.NewReader("url,country\nx,y\n"), service.ImportOptions{}); err == nil {
		t.Error("missing name column should fail")
	}
}
