package model

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, perPage int
		want          Pagination
	}{
		{1, 20, Pagination{1, 20}},
		{0, 0, Pagination{1, 10}},
		{-3, -1, Pagination{1, 10}},
		{4, 500, Pagination{4, MaxPerPage}},
	}
	for _, tt := range tests {
		if got := NewPagination(tt.page, tt.perPage, 10); got != tt.want {
			t.Errorf("NewPagination(%d, %d) = %+v, want %+v", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestTotalPagesAndOffset(t *testing.T) {
	p := Pagination{Page: 3, PerPage: 20}
	if p.Offset() != 40 {
		t.Errorf("offset = %d", p.Offset())
	}
	cases := map[int64]int{0: 0, 1: 1, 20: 1, 21: 2, 100: 5}
	for total, want := range cases {
		if got := p.TotalPages(total); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestNewPageResultNeverNil(t *testing.T) {
	res := NewPageResult[Station](nil, 0, Pagination{Page: 2, PerPage: 5})
	if res.Items == nil {
		t.Fatal("items must serialize as an empty array")
	}
	if res.Page != 2 || res.PerPage != 5 || res.TotalPages != 0 {
		t.Errorf("unexpected envelope %+v", res)
	}
}

func TestFindTagCategory(t *testing.T) {
	for _, name := range []string{"Music Genre", "genre"} {
		c, ok := FindTagCategory(name)
		if !ok || c.Table != "music_genres" || c.Weight != 5 {
			t.Errorf("FindTagCategory(%q) = %+v, %v", name, c, ok)
		}
	}
	if _, ok := FindTagCategory("music genre"); ok {
		t.Error("lookup is case sensitive")
	}

	names := TagCategoryNames()
	want := []string{"Music Genre", "Decade", "Topic", "Lang", "Mood"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestWeightsAddUp(t *testing.T) {
	weights := map[string]int{}
	for _, c := range TagCategories {
		weights[c.Key] = c.Weight
	}
	want := map[string]int{"genre": 5, "lang": 4, "decade": 3, "topic": 2, "mood": 1}
	for k, w := range want {
		if weights[k] != w {
			t.Errorf("weight for %s = %d, want %d", k, weights[k], w)
		}
	}
}

func TestStationTagCount(t *testing.T) {
	s := Station{
		MusicGenres: []MusicGenre{{Name: "jazz"}, {Name: "blues"}},
		Moods:       []Mood{{Name: "chill"}},
	}
	if s.TagCount() != 3 {
		t.Errorf("TagCount = %d", s.TagCount())
	}
}
