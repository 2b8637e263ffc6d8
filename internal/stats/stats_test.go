// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package stats

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/tomtom215/boxdstats/internal/enrich"
	"github.com/tomtom215/boxdstats/internal/tabular"
)

type fakeEnricher struct {
	meta    map[enrich.TitleKey]*enrich.Metadata
	posters map[enrich.TitleKey]string

	mu          sync.Mutex
	posterQuery []enrich.Query
}

func (f *fakeEnricher) ResolveAll(_ context.Context, queries []enrich.Query) map[enrich.TitleKey]*enrich.Metadata {
	out := make(map[enrich.TitleKey]*enrich.Metadata)
	for _, q := range queries {
		out[q.Key()] = f.meta[q.Key()]
	}
	return out
}

func (f *fakeEnricher) PostersAll(_ context.Context, queries []enrich.Query) map[enrich.TitleKey]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[enrich.TitleKey]string)
	for _, q := range queries {
		f.posterQuery = append(f.posterQuery, q)
		out[q.Key()] = f.posters[q.Key()]
	}
	return out
}

func rating(name, year, value string) tabular.Row {
	return tabular.NewRow("Name", name, "Year", year, "Rating", value)
}

func diaryRow(name, date string) tabular.Row {
	return tabular.NewRow("Name", name, "Watched Date", date)
}

func TestCounterTopBreaksTiesByName(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	for _, name := range []string{"b", "a", "c", "c", " ", ""} {
		c.Add(name)
	}
	got := c.Top(2)
	want := []Entry{{Key: "c", Count: 2}, {Key: "a", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Top(2) = %v, want %v", got, want)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestRatings(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		rating("A", "2000", "4"),
		rating("B", "2000", "3.5"),
		rating("C", "2000", "abc"),
		rating("D", "2000", ""),
		rating("E", "2000", "5"),
		rating("F", "2000", "0.5"),
	}
	got := Ratings(rows)

	if got.Average != 3.25 {
		t.Errorf("Average = %v, want 3.25", got.Average)
	}
	want := map[string]int{"4": 1, "3.5": 1, "5": 1, "0.5": 1}
	if !reflect.DeepEqual(got.Distribution, want) {
		t.Errorf("Distribution = %v, want %v", got.Distribution, want)
	}

	if empty := Ratings(nil); empty.Average != 0 || len(empty.Distribution) != 0 {
		t.Errorf("Ratings(nil) = %+v", empty)
	}
}

func TestRatingsRoundsAverage(t *testing.T) {
	t.Parallel()

	got := Ratings([]tabular.Row{rating("A", "", "4"), rating("B", "", "3.5"), rating("C", "", "5")})
	if got.Average != 4.17 {
		t.Errorf("Average = %v, want 4.17", got.Average)
	}
}

func TestAverageRatingByReleaseYearIsDense(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		rating("A", "2000", "4"),
		rating("B", "2000", "5"),
		rating("C", "2003", "3"),
		rating("D", "", "3"),
		rating("E", "2001", "x"),
	}
	want := []YearAverage{
		{Year: "2000", Average: 4.5},
		{Year: "2001", Average: 0},
		{Year: "2002", Average: 0},
		{Year: "2003", Average: 3},
	}
	if got := AverageRatingByReleaseYear(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("AverageRatingByReleaseYear() = %v, want %v", got, want)
	}
	if got := AverageRatingByReleaseYear(nil); got == nil || len(got) != 0 {
		t.Errorf("AverageRatingByReleaseYear(nil) = %v, want []", got)
	}
}

func TestMoviesByReleaseYearAndTopYears(t *testing.T) {
	t.Parallel()

	watched := []tabular.Row{
		tabular.NewRow("Name", "A", "Year", "2001"),
		tabular.NewRow("Name", "B", "Year", "1999"),
		tabular.NewRow("Name", "C", "Year", "2001"),
		tabular.NewRow("Name", "D", "Year", "2005"),
		tabular.NewRow("Name", "E", "Year", ""),
	}

	dense := MoviesByReleaseYear(watched)
	if len(dense) != 7 {
		t.Fatalf("len = %d, want 7 (1999..2005)", len(dense))
	}
	if dense[0] != (YearCount{Year: "1999", Count: 1}) || dense[1] != (YearCount{Year: "2000", Count: 0}) || dense[2] != (YearCount{Year: "2001", Count: 2}) {
		t.Errorf("MoviesByReleaseYear() = %v", dense)
	}

	top := TopYears(watched, TopYearsN)
	want := []YearCount{{"2001", 2}, {"1999", 1}, {"2005", 1}}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("TopYears() = %v, want %v", top, want)
	}
}

func TestTopDecadesTieBreak(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		tabular.NewRow("Name", "Zeta", "Year", "1995", "Rating", "4.5", "Date", "2023-05-01"),
		tabular.NewRow("Name", "Beta", "Year", "1991", "Rating", "4.5", "Date", "2023-01-01"),
		tabular.NewRow("Name", "Alpha", "Year", "1999", "Rating", "4.5", "Date", "2023-05-01"),
		tabular.NewRow("Name", "Low", "Year", "1990", "Rating", "1", "Date", "2023-06-01"),
		tabular.NewRow("Name", "Old", "Year", "1955", "Rating", "5"),
		tabular.NewRow("Name", "Mid", "Year", "2004", "Rating", "3"),
		tabular.NewRow("Name", "Bad", "Year", "1982", "Rating", "1"),
		tabular.NewRow("Name", "", "Year", "1982", "Rating", "5"),
	}
	enricher := &fakeEnricher{posters: map[enrich.TitleKey]string{
		enrich.NewTitleKey("Alpha", "1999"): "/alpha.jpg",
	}}

	got := TopDecades(context.Background(), rows, enricher)

	if len(got) != 3 {
		t.Fatalf("got %d decades, want 3", len(got))
	}
	labels := []string{got[0].Decade, got[1].Decade, got[2].Decade}
	if !reflect.DeepEqual(labels, []string{"1950s", "1990s", "2000s"}) {
		t.Errorf("decades = %v", labels)
	}
	if got[1].Average != 3.63 {
		t.Errorf("1990s average = %v, want 3.63", got[1].Average)
	}

	var titles []string
	for _, m := range got[1].TopMovies {
		titles = append(titles, m.Title)
	}
	if !reflect.DeepEqual(titles, []string{"Alpha", "Zeta", "Beta", "Low"}) {
		t.Errorf("1990s movies = %v", titles)
	}
	if got[1].TopMovies[0].PosterPath != "/alpha.jpg" || got[1].TopMovies[0].Year != "1999" {
		t.Errorf("Alpha = %+v", got[1].TopMovies[0])
	}
}

func TestTopDecadesCapsMovies(t *testing.T) {
	t.Parallel()

	var rows []tabular.Row
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		rows = append(rows, rating(name, "2010", "3"))
	}
	enricher := &fakeEnricher{}
	got := TopDecades(context.Background(), rows, enricher)
	if len(got) != 1 || len(got[0].TopMovies) != 8 {
		t.Fatalf("TopDecades() = %+v", got)
	}
	if len(enricher.posterQuery) != 8 {
		t.Errorf("poster lookups = %d, want 8", len(enricher.posterQuery))
	}
}

func TestLongestStreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"example", []string{"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-10"}, 3},
		{"empty", nil, 0},
		{"single", []string{"2023-01-01"}, 1},
		{"duplicates and disorder", []string{"2023-03-02", "2023-03-01", "2023-03-01", "2023-02-28"}, 3},
		{"month boundary in leap year", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 3},
		{"unparseable ignored", []string{"2023-01-01", "bogus", "2023-01-02"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var rows []tabular.Row
			for _, d := range tt.dates {
				rows = append(rows, diaryRow("x", d))
			}
			if got := LongestStreak(rows); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseWatchedDate(t *testing.T) {
	t.Parallel()

	d, ok := ParseWatchedDate("2023-01-02")
	if !ok {
		t.Fatal("ParseWatchedDate(2023-01-02) failed")
	}
	if d.DayIndex != 0 || d.Day() != "Monday" || d.Week != 1 || d.Month() != "January" || d.Year != "2023" {
		t.Errorf("ParseWatchedDate(2023-01-02) = %+v", d)
	}

	if d, _ := ParseWatchedDate("2021-01-01"); d.Week != 53 || d.Day() != "Friday" {
		t.Errorf("2021-01-01 = week %d %s, want week 53 Friday", d.Week, d.Day())
	}
	if d, _ := ParseWatchedDate("2023-01-01"); d.DayIndex != 6 || d.Week != 52 {
		t.Errorf("2023-01-01 = day %d week %d, want 6 and 52", d.DayIndex, d.Week)
	}

	for _, bad := range []string{"", "2023-1-2", "2023-02-30", "02/01/2023", "2023-01-02T10:00"} {
		if _, ok := ParseWatchedDate(bad); ok {
			t.Errorf("ParseWatchedDate(%q) succeeded", bad)
		}
	}
}

func TestActivity(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		diaryRow("A", "2023-01-02"),
		diaryRow("B", "2021-01-01"),
		diaryRow("C", "2022-06-15"),
		diaryRow("D", "not a date"),
		diaryRow("E", "2023-01-03"),
	}
	got := Activity(rows)

	if !reflect.DeepEqual(got.AvailableYears, []string{"Total", "2023", "2022", "2021"}) {
		t.Errorf("AvailableYears = %v", got.AvailableYears)
	}

	y2021 := got.ByYear["2021"]
	if len(y2021.Weeks) != 53 || y2021.Weeks[52].Count != 1 || y2021.Weeks[52].Week != 53 {
		t.Errorf("2021 weeks len=%d last=%+v", len(y2021.Weeks), y2021.Weeks[len(y2021.Weeks)-1])
	}
	if y2021.Days[4].Count != 1 || y2021.Months[0].Count != 1 {
		t.Errorf("2021 days=%v months=%v", y2021.Days, y2021.Months)
	}

	total := got.ByYear[TotalBucket]
	if len(total.Weeks) != 53 {
		t.Errorf("Total weeks len = %d, want 53", len(total.Weeks))
	}
	if total.Days[0].Count != 1 || total.Days[1].Count != 1 || total.Days[2].Count != 1 {
		t.Errorf("Total days = %v", total.Days)
	}
	if total.Weeks[0].Count != 2 {
		t.Errorf("Total week 1 = %d, want 2", total.Weeks[0].Count)
	}
	if len(got.ByYear["2023"].Weeks) != 52 {
		t.Errorf("2023 weeks len = %d, want 52", len(got.ByYear["2023"].Weeks))
	}
}

func TestActivityEmpty(t *testing.T) {
	t.Parallel()

	got := Activity(nil)
	if !reflect.DeepEqual(got.AvailableYears, []string{"Total"}) {
		t.Errorf("AvailableYears = %v", got.AvailableYears)
	}
	total, ok := got.ByYear[TotalBucket]
	if !ok || len(total.Days) != 7 || len(total.Months) != 12 || len(total.Weeks) != 52 {
		t.Errorf("Total bucket = %+v", total)
	}
}

func TestBucketEnsureLen(t *testing.T) {
	t.Parallel()

	b := NewBucket()
	b.EnsureLen(10)
	if len(b.Weeks) != 52 {
		t.Errorf("EnsureLen shrank weeks to %d", len(b.Weeks))
	}
	b.EnsureLen(54)
	if len(b.Weeks) != 54 || b.Weeks[53].Week != 54 {
		t.Errorf("weeks = %d, last = %+v", len(b.Weeks), b.Weeks[len(b.Weeks)-1])
	}
}

func TestWatchedYearStats(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		tabular.NewRow("Watched Date", "2023-05-01", "Rating", "4"),
		tabular.NewRow("Watched Date", "2023-06-01", "Rating", "3"),
		tabular.NewRow("Watched Date", "2023-07-01", "Rating", ""),
		tabular.NewRow("date", "2021-01-01"),
		tabular.NewRow("Watched Date", "abcd-01-01", "Rating", "5"),
		tabular.NewRow("Watched Date", "20", "Rating", "5"),
	}
	want := []WatchedYear{
		{Year: "2021", Count: 1, AverageRating: 0},
		{Year: "2023", Count: 3, AverageRating: 3.5},
	}
	if got := WatchedYearStats(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("WatchedYearStats() = %v, want %v", got, want)
	}
}

func TestTopTags(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		tabular.NewRow("Tags", "cinema, friends"),
		tabular.NewRow("Tags", "cinema,,home"),
		tabular.NewRow("Tags", ""),
	}
	want := []TagCount{{"cinema", 2}, {"friends", 1}, {"home", 1}}
	if got := TopTags(rows, TopTagsN); !reflect.DeepEqual(got, want) {
		t.Errorf("TopTags() = %v, want %v", got, want)
	}
}

func TestMostRewatched(t *testing.T) {
	t.Parallel()

	rows := []tabular.Row{
		diaryRow("Heat", "2023-01-01"),
		diaryRow("Alien", "2023-01-02"),
		diaryRow(" Heat ", "2023-01-03"),
		diaryRow("Heat", "2023-01-04"),
		diaryRow("Alien", "2023-01-05"),
		diaryRow("Solaris", "2023-01-06"),
	}
	enricher := &fakeEnricher{posters: map[enrich.TitleKey]string{
		enrich.NewTitleKey("Heat", ""): "/heat.jpg",
	}}

	got := MostRewatched(context.Background(), rows, enricher)
	want := []Rewatch{{"Heat", 3, "/heat.jpg"}, {"Alien", 2, ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MostRewatched() = %v, want %v", got, want)
	}
	for _, q := range enricher.posterQuery {
		if q.Year != "" {
			t.Errorf("poster lookup %+v carried a year", q)
		}
	}

	if got := MostRewatched(context.Background(), rows[:2], enricher); got == nil || len(got) != 0 {
		t.Errorf("MostRewatched() without rewatches = %v", got)
	}
}

func TestBuildRollup(t *testing.T) {
	t.Parallel()

	cast := []enrich.Person{
		{Name: "A1", ProfilePath: "/a1.jpg"}, {Name: "A2"}, {Name: "A3"}, {Name: "A4"}, {Name: "A5"}, {Name: "A6"},
	}
	enricher := &fakeEnricher{meta: map[enrich.TitleKey]*enrich.Metadata{
		enrich.NewTitleKey("Heat", "1995"): {
			Genres:           []string{"Crime", "Drama"},
			Cast:             cast,
			Directors:        []enrich.Person{{Name: "Michael Mann"}},
			Runtime:          170,
			OriginalLanguage: "en",
			OriginCountry:    "US",
			PosterPath:       "/heat.jpg",
		},
		enrich.NewTitleKey("Amelie", "2001"): {
			Genres:           []string{"Comedy", "Drama"},
			Cast:             []enrich.Person{{Name: "A1"}, {Name: "Audrey Tautou"}},
			Directors:        []enrich.Person{{Name: "Jean-Pierre Jeunet", ProfilePath: "/jpj.jpg"}},
			OriginalLanguage: "fr",
			OriginCountry:    "FR",
		},
	}}
	watched := []tabular.Row{
		tabular.NewRow("Name", "Heat", "Year", "1995"),
		tabular.NewRow("Name", "heat ", "Year", "1995"),
		tabular.NewRow("Name", "Amelie", "Year", "2001"),
		tabular.NewRow("Name", "Unknown Film", "Year", ""),
	}
	diary := []tabular.Row{
		tabular.NewRow("Name", "Heat", "Watched Date", "2023-01-02", "Rating", "4.5", "Tags", "cinema, rewatch"),
		tabular.NewRow("Name", "Heat", "Watched Date", "bad", "Rating", ""),
	}
	liked := map[string]bool{"Amelie": true}

	got := BuildRollup(context.Background(), watched, diary, liked, enricher)

	if len(got.AllMovies) != 3 {
		t.Fatalf("AllMovies has %d films, want 3", len(got.AllMovies))
	}
	heat, amelie, unknown := got.AllMovies[0], got.AllMovies[1], got.AllMovies[2]

	if heat.Country != "United States of America" || heat.Language != "English" || heat.PosterPath != "/heat.jpg" {
		t.Errorf("heat = %+v", heat)
	}
	if *heat.ReleaseYear != 1995 || *heat.Decade != "1990s" || heat.RewatchCount != 2 || heat.Liked {
		t.Errorf("heat year/decade/rewatch/liked = %v %v %d %v", *heat.ReleaseYear, *heat.Decade, heat.RewatchCount, heat.Liked)
	}
	if len(heat.Cast) != 6 {
		t.Errorf("heat cast = %v, want all stored names", heat.Cast)
	}
	log := heat.DiaryLogs[0]
	if *log.Rating != 4.5 || *log.WatchedDay != "Monday" || *log.WatchedWeek != 1 || *log.WatchedMonth != "January" || *log.WatchedYear != "2023" {
		t.Errorf("diary log = %+v", log)
	}
	if !reflect.DeepEqual(log.Tags, []string{"cinema", "rewatch"}) {
		t.Errorf("tags = %v", log.Tags)
	}
	if second := heat.DiaryLogs[1]; second.Rating != nil || second.WatchedDay != nil || second.Tags == nil {
		t.Errorf("unparseable diary log = %+v", second)
	}

	if !amelie.Liked || amelie.Country != "France" || amelie.Language != "French" {
		t.Errorf("amelie = %+v", amelie)
	}

	if unknown.ReleaseYear != nil || unknown.Decade != nil || unknown.Genres == nil || len(unknown.Genres) != 0 || unknown.Country != "" {
		t.Errorf("unknown film = %+v", unknown)
	}

	if got.TopGenres[0] != (NameCount{Name: "Drama", Count: 2}) {
		t.Errorf("TopGenres = %v", got.TopGenres)
	}
	if len(got.AllCountries) != 2 || len(got.TopLanguages) != 2 {
		t.Errorf("countries = %v languages = %v", got.AllCountries, got.TopLanguages)
	}

	// Only the first five billed actors count.
	if len(got.TopActorsAllTime) != 6 {
		t.Errorf("TopActorsAllTime = %v", got.TopActorsAllTime)
	}
	if got.TopActorsAllTime[0] != (PersonCount{Name: "A1", Count: 2, ProfilePath: "/a1.jpg"}) {
		t.Errorf("TopActorsAllTime[0] = %+v", got.TopActorsAllTime[0])
	}
	for _, pc := range got.TopActorsAllTime {
		if pc.Name == "A6" {
			t.Error("sixth billed actor was counted")
		}
	}

	// Logged rankings only see Heat.
	if len(got.TopActorsLogged) != 5 || got.TopActorsLogged[0].Count != 1 {
		t.Errorf("TopActorsLogged = %v", got.TopActorsLogged)
	}
	if !reflect.DeepEqual(got.TopDirectorsLogged, []PersonCount{{Name: "Michael Mann", Count: 1}}) {
		t.Errorf("TopDirectorsLogged = %v", got.TopDirectorsLogged)
	}
	if len(got.TopDirectorsAllTime) != 2 || got.TopDirectorsAllTime[0].Name != "Jean-Pierre Jeunet" {
		t.Errorf("TopDirectorsAllTime = %v", got.TopDirectorsAllTime)
	}
}

func TestBuildRollupWithoutMetadata(t *testing.T) {
	t.Parallel()

	watched := []tabular.Row{tabular.NewRow("Name", "Heat", "Year", "1995")}
	got := BuildRollup(context.Background(), watched, nil, nil, &fakeEnricher{})

	if len(got.AllMovies) != 1 || got.AllMovies[0].Title != "Heat" {
		t.Errorf("AllMovies = %+v", got.AllMovies)
	}
	if got.TopGenres == nil || len(got.TopGenres) != 0 || got.TopActorsAllTime == nil {
		t.Errorf("rankings should be empty and non-nil: %+v", got)
	}
}

func TestTotalHoursWatched(t *testing.T) {
	t.Parallel()

	enricher := &fakeEnricher{meta: map[enrich.TitleKey]*enrich.Metadata{
		enrich.NewTitleKey("Heat", "1995"):  {Runtime: 170},
		enrich.NewTitleKey("Alien", "1979"): {Runtime: 117},
	}}
	diary := []tabular.Row{
		tabular.NewRow("Name", "Heat", "Year", "1995"),
		tabular.NewRow("Name", "Heat", "Year", "1995"),
		tabular.NewRow("Name", "Alien", "Year", "1979"),
		tabular.NewRow("Name", "Missing", "Year", "2000"),
		tabular.NewRow("Name", "", "Year", "2000"),
	}
	// 170 + 170 + 117 = 457 minutes
	if got := TotalHoursWatched(context.Background(), diary, enricher); got != 8 {
		t.Errorf("TotalHoursWatched() = %d, want 8", got)
	}
	if got := TotalHoursWatched(context.Background(), nil, enricher); got != 0 {
		t.Errorf("TotalHoursWatched(nil) = %d", got)
	}
}

func TestDeletedListNames(t *testing.T) {
	t.Parallel()

	got := DeletedListNames([]string{"deleted/lists/my-favorites.csv", "export/deleted/lists/to-watch.CSV"})
	want := []string{"my favorites", "to watch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeletedListNames() = %v, want %v", got, want)
	}
}

func TestProfileAndLikes(t *testing.T) {
	t.Parallel()

	p := ProfileFromRows([]tabular.Row{tabular.NewRow("Username", " cinephile ", "Bio", "films")})
	if p != (Profile{Username: "cinephile", Bio: "films"}) {
		t.Errorf("ProfileFromRows() = %+v", p)
	}
	if ProfileFromRows(nil) != (Profile{}) {
		t.Error("ProfileFromRows(nil) not empty")
	}

	likes := []tabular.Row{
		tabular.NewRow("Name", "Heat", "Year", "1995"),
		tabular.NewRow("Name", " Alien ", "Year", "1979"),
		tabular.NewRow("Name", "Casino", "Year", "1995"),
	}
	liked := LikedTitles(likes)
	if !liked["Alien"] || !liked["Heat"] || len(liked) != 3 {
		t.Errorf("LikedTitles() = %v", liked)
	}
	want := []YearCount{{"1995", 2}, {"1979", 1}}
	if got := TopLikedYears(likes, TopLikedYearsN); !reflect.DeepEqual(got, want) {
		t.Errorf("TopLikedYears() = %v, want %v", got, want)
	}
}
