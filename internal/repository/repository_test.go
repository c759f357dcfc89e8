package repository_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/testutil"
	"gorm.io/gorm/logger"
)

func TestUserRepository(t *testing.T) {
	t.Run("PasswordOverBcryptLimit", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		repo := repository.NewUserRepository(db)

		// 30 个汉字共 90 字节
		_, err := repo.Create("anna", strings.Repeat("密", 30))
		appErr, ok := apperror.As(err)
		if !ok || appErr.Type != apperror.ValidationError {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("CreateAndFind", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		repo := repository.NewUserRepository(db)

		user, err := repo.Create("marco", "secret123")
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if user.ID == 0 {
			t.Error("user ID should be set after creation")
		}
		if user.PasswordHash == "secret123" {
			t.Error("password must be hashed")
		}

		found, err := repo.FindByUsername("marco")
		if err != nil || found == nil {
			t.Fatalf("FindByUsername: %v %v", found, err)
		}
		if !repo.CheckPassword(found, "secret123") {
			t.Error("correct password rejected")
		}
		if repo.CheckPassword(found, "wrong") {
			t.Error("wrong password accepted")
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		repo := repository.NewUserRepository(db)

		if _, err := repo.Create("marco", "secret123"); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err := repo.Create("marco", "another1")
		appErr, ok := apperror.As(err)
		if !ok || appErr.Type != apperror.ConflictError {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})

	t.Run("MissingReturnsNil", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		repo := repository.NewUserRepository(db)

		u, err := repo.FindByID(42)
		if err != nil || u != nil {
			t.Errorf("expected nil, nil; got %v, %v", u, err)
		}
		u, err = repo.FindByUsername("nobody")
		if err != nil || u != nil {
			t.Errorf("expected nil, nil; got %v, %v", u, err)
		}
	})
}

func TestStationSearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewStationRepository(db)

	rock := testutil.SeedStation(t, db, "Rock FM", testutil.Tags{Genres: []string{"rock"}, Langs: []string{"italian"}})
	both := testutil.SeedStation(t, db, "Mix Radio", testutil.Tags{Genres: []string{"rock", "pop"}, Langs: []string{"english"}})
	testutil.SeedStation(t, db, "Jazz Club", testutil.Tags{Genres: []string{"jazz"}, Langs: []string{"italian"}})

	t.Run("GenreFilterOnlyTagged", func(t *testing.T) {
		filter := model.StationFilter{Tags: map[string][]string{"genre": {"rock"}}}
		stations, total, err := repo.Search(filter, model.NewPagination(1, 20, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if total != 2 || len(stations) != 2 {
			t.Fatalf("expected 2 rock stations, got %d (%d)", len(stations), total)
		}
		for _, s := range stations {
			found := false
			for _, g := range s.MusicGenres {
				if g.Name == "rock" {
					found = true
				}
			}
			if !found {
				t.Errorf("station %q is not tagged rock", s.Name)
			}
		}
	})

	t.Run("MultipleValuesNoDuplicates", func(t *testing.T) {
		filter := model.StationFilter{Tags: map[string][]string{"genre": {"rock", "pop"}}}
		stations, total, err := repo.Search(filter, model.NewPagination(1, 20, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if total != 2 || len(stations) != 2 {
			t.Errorf("station matching two values must appear once, got %d (%d)", len(stations), total)
		}
	})

	t.Run("DimensionsAreAnded", func(t *testing.T) {
		filter := model.StationFilter{Tags: map[string][]string{"genre": {"rock"}, "lang": {"italian"}}}
		stations, _, err := repo.Search(filter, model.NewPagination(1, 20, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(stations) != 1 || stations[0].ID != rock.ID {
			t.Errorf("expected only Rock FM, got %+v", stations)
		}
	})

	t.Run("NameSubstringCaseInsensitive", func(t *testing.T) {
		stations, _, err := repo.Search(model.StationFilter{Search: "mix"}, model.NewPagination(1, 20, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(stations) != 1 || stations[0].ID != both.ID {
			t.Errorf("expected Mix Radio, got %+v", stations)
		}
	})

	t.Run("CountryCode", func(t *testing.T) {
		stations, _, err := repo.Search(model.StationFilter{CountryCodes: []string{"DE"}}, model.NewPagination(1, 20, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(stations) != 0 {
			t.Errorf("no German stations seeded, got %d", len(stations))
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		stations, total, err := repo.Search(model.StationFilter{}, model.NewPagination(2, 2, 20))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if total != 3 || len(stations) != 1 {
			t.Errorf("page 2 of 2 should hold one station, got %d (%d)", len(stations), total)
		}

		stations, _, err = repo.Search(model.StationFilter{}, model.NewPagination(9, 2, 20))
		if err != nil || len(stations) != 0 {
			t.Errorf("page past the end should be empty, got %d, %v", len(stations), err)
		}
	})
}

func TestStationFindSimilar(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewStationRepository(db)

	all := testutil.Tags{
		Genres:  []string{"rock"},
		Decades: []string{"80s"},
		Topics:  []string{"news"},
		Langs:   []string{"italian"},
		Moods:   []string{"happy"},
	}
	source := testutil.SeedStation(t, db, "Source", all)
	twin := testutil.SeedStation(t, db, "Twin", all)
	moodOnly := testutil.SeedStation(t, db, "Mood Only", testutil.Tags{Moods: []string{"happy"}, Genres: []string{"jazz"}})
	langGenre := testutil.SeedStation(t, db, "Lang Genre", testutil.Tags{Genres: []string{"rock"}, Langs: []string{"italian"}})
	testutil.SeedStation(t, db, "Unrelated", testutil.Tags{Genres: []string{"classical"}})

	similar, err := repo.FindSimilar(source.ID, 10)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(similar) != 3 {
		t.Fatalf("expected 3 similar stations, got %d", len(similar))
	}

	want := []struct {
		id    int
		score int
	}{
		{twin.ID, 15},
		{langGenre.ID, 9},
		{moodOnly.ID, 1},
	}
	for i, w := range want {
		if similar[i].ID != w.id || similar[i].Score != w.score {
			t.Errorf("rank %d: got station %d score %d, want %d score %d",
				i, similar[i].ID, similar[i].Score, w.id, w.score)
		}
	}
	if len(similar[0].MusicGenres) != 1 {
		t.Error("similar stations should carry their tags")
	}

	limited, err := repo.FindSimilar(source.ID, 1)
	if err != nil || len(limited) != 1 || limited[0].ID != twin.ID {
		t.Errorf("limit not applied: %+v %v", limited, err)
	}

	for _, s := range similar {
		if s.ID == source.ID {
			t.Error("source station must not be similar to itself")
		}
	}
}

func TestTagRepositoryListNames(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedStation(t, db, "A", testutil.Tags{Genres: []string{"rock", "ambient"}})
	testutil.SeedStation(t, db, "B", testutil.Tags{Genres: []string{"jazz"}})

	cat, _ := model.FindTagCategory("genre")
	names, err := repository.NewTagRepository(db).ListNames(cat)
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	want := []string{"ambient", "jazz", "rock"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	empty, _ := model.FindTagCategory("mood")
	names, err = repository.NewTagRepository(db).ListNames(empty)
	if err != nil || names == nil || len(names) != 0 {
		t.Errorf("expected empty non-nil list, got %v %v", names, err)
	}
}

func TestFavoriteRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	user := testutil.SeedUser(t, db, "giulia", "secret123")
	a := testutil.SeedStation(t, db, "A", testutil.Tags{Genres: []string{"rock"}})
	b := testutil.SeedStation(t, db, "B", testutil.Tags{})

	created, err := repos.Favorite.Add(user.ID, a.ID)
	if err != nil || !created {
		t.Fatalf("first add: %v %v", created, err)
	}
	created, err = repos.Favorite.Add(user.ID, a.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if created {
		t.Error("second add must not create a new row")
	}
	if n, _ := repos.Favorite.CountByUser(user.ID); n != 1 {
		t.Errorf("expected one favorite, got %d", n)
	}

	if _, err := repos.Favorite.Add(user.ID, b.ID); err != nil {
		t.Fatalf("add b: %v", err)
	}
	stations, err := repos.Favorite.ListStations(user.ID)
	if err != nil || len(stations) != 2 {
		t.Fatalf("ListStations: %v %v", stations, err)
	}

	removed, err := repos.Favorite.Remove(user.ID, a.ID)
	if err != nil || !removed {
		t.Errorf("remove: %v %v", removed, err)
	}
	removed, _ = repos.Favorite.Remove(user.ID, a.ID)
	if removed {
		t.Error("removing twice should report nothing removed")
	}
	if left, _ := repos.Favorite.ListStations(user.ID); len(left) != 1 || left[0].ID == a.ID {
		t.Errorf("a should no longer be a favorite: %v", left)
	}
}

func TestHistoryRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	user := testutil.SeedUser(t, db, "luca", "secret123")
	other := testutil.SeedUser(t, db, "anna", "secret123")
	s := testutil.SeedStation(t, db, "Radio", testutil.Tags{Moods: []string{"calm"}})

	for i := 0; i < 3; i++ {
		if _, err := repos.History.Add(user.ID, s.ID); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	otherEntry, _ := repos.History.Add(other.ID, s.ID)

	entries, total, err := repos.History.ListByUser(user.ID, model.NewPagination(1, 2, 30))
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 3 || len(entries) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(entries), total)
	}
	if entries[0].Station == nil || entries[0].Station.Name != "Radio" {
		t.Error("entries should carry their station")
	}
	if len(entries[0].Station.Moods) != 1 {
		t.Error("nested station should carry its tags")
	}
	if entries[0].ID < entries[1].ID {
		t.Error("newest entry should come first")
	}

	ok, err := repos.History.Delete(user.ID, otherEntry.ID)
	if err != nil || ok {
		t.Error("a user cannot delete someone else's history")
	}

	removed, err := repos.History.DeleteOlderThan(time.Now().Add(time.Hour))
	if err != nil || removed != 4 {
		t.Errorf("DeleteOlderThan removed %d, %v", removed, err)
	}
}

func TestPlaylistRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	owner := testutil.SeedUser(t, db, "owner", "secret123")
	a := testutil.SeedStation(t, db, "A", testutil.Tags{Genres: []string{"rock"}})
	b := testutil.SeedStation(t, db, "B", testutil.Tags{})

	public := &model.Playlist{Name: "Morning", IsPublic: true, UserID: owner.ID}
	private := &model.Playlist{Name: "Secret", IsPublic: false, UserID: owner.ID}
	for _, p := range []*model.Playlist{public, private} {
		if err := repos.Playlist.Create(p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	t.Run("PrivateStaysPrivate", func(t *testing.T) {
		got, err := repos.Playlist.FindByID(private.ID)
		if err != nil || got == nil {
			t.Fatalf("FindByID: %v %v", got, err)
		}
		if got.IsPublic {
			t.Error("is_public=false must be persisted, not replaced by a default")
		}
	})

	t.Run("Stations", func(t *testing.T) {
		for _, s := range []model.Station{b, a} {
			added, err := repos.Playlist.AddStation(public.ID, s.ID)
			if err != nil || !added {
				t.Fatalf("AddStation: %v %v", added, err)
			}
		}
		added, _ := repos.Playlist.AddStation(public.ID, a.ID)
		if added {
			t.Error("duplicate membership must not be added")
		}

		got, _ := repos.Playlist.FindByID(public.ID)
		if len(got.Stations) != 2 {
			t.Fatalf("expected 2 stations, got %d", len(got.Stations))
		}
		if got.Owner == nil || got.Owner.Username != "owner" {
			t.Error("owner should be preloaded")
		}

		removed, _ := repos.Playlist.RemoveStation(public.ID, b.ID)
		if !removed {
			t.Error("expected station to be removed")
		}
		if ok, _ := repos.Playlist.HasStation(public.ID, b.ID); ok {
			t.Error("b should be gone")
		}
	})

	t.Run("ListPublic", func(t *testing.T) {
		lists, total, err := repos.Playlist.ListPublic(model.NewPagination(1, 10, 10))
		if err != nil {
			t.Fatalf("ListPublic: %v", err)
		}
		if total != 1 || len(lists) != 1 || lists[0].ID != public.ID {
			t.Errorf("only the public playlist should be listed, got %+v", lists)
		}
		mine, _ := repos.Playlist.ListByUser(owner.ID)
		if len(mine) != 2 {
			t.Errorf("owner should see both playlists, got %d", len(mine))
		}
	})

	t.Run("Update", func(t *testing.T) {
		name := "Evening"
		pub := true
		if err := repos.Playlist.Update(private, model.PlaylistUpdate{Name: &name, IsPublic: &pub}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ := repos.Playlist.FindByID(private.ID)
		if got.Name != "Evening" || !got.IsPublic {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("DeleteRemovesMembership", func(t *testing.T) {
		if err := repos.Playlist.Delete(public.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got, err := repos.Playlist.FindByID(public.ID)
		if err != nil || got != nil {
			t.Errorf("playlist should be gone, got %v %v", got, err)
		}
		var links int64
		db.Model(&model.PlaylistStation{}).Where("playlist_id = ?", public.ID).Count(&links)
		if links != 0 {
			t.Errorf("membership rows left behind: %d", links)
		}
	})
}

func TestSQLiteForeignKeysOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radiodex.db")
	db, err := repository.InitDB("sqlite", path, logger.Silent)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()

	// 同时持有多个连接，迫使连接池新建连接
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("pragma on conn %d: %v", i, err)
		}
		if enabled != 1 {
			t.Errorf("foreign keys disabled on connection %d", i)
		}
	}
}
