package querybuilder

import "testing"

func TestBuildSelect(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("player_id", "score").
		From("match_rankings").
		Where("match_id = ?", "m-1").
		OrderBy("rank", true).
		Build()

	want := "SELECT player_id, score FROM public.match_rankings WHERE match_id = ? ORDER BY rank ASC"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 1 || args[0] != "m-1" {
		t.Errorf("args = %v, want [m-1]", args)
	}
}

func TestBuildSelectMultipleConditions(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("id").
		From("matches").
		Where("status = ?", "COMPLETED").
		Where("question_id = ?", "q-1").
		OrderBy("completed_at", false).
		Build()

	want := "SELECT id FROM public.matches WHERE status = ? AND question_id = ? ORDER BY completed_at DESC"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 args", args)
	}
}

func TestBuildInsert(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Insert("match_id", "player_id", "score").
		Into("match_rankings").
		Values("m-1", "alice", 150).
		Values("m-1", "bob", 50).
		Build()

	want := "INSERT INTO public.match_rankings (match_id, player_id, score) VALUES (?, ?, ?), (?, ?, ?)"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 6 {
		t.Errorf("args = %v, want 6 args", args)
	}
}

func TestBuildInsertOnConflictDoNothing(t *testing.T) {
	query, _ := NewQueryBuilder("public").
		Insert("id", "status").
		Into("matches").
		Values("m-1", "COMPLETED").
		OnConflict("id").
		Build()

	want := "INSERT INTO public.matches (id, status) VALUES (?, ?) ON CONFLICT (id) DO NOTHING"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestBuildInsertUpsert(t *testing.T) {
	query, _ := NewQueryBuilder("public").
		Insert("match_id", "player_id", "rank", "score").
		Into("match_rankings").
		Values("m-1", "alice", 1, 150).
		OnConflict("match_id", "player_id").
		SetExclude("rank", "score").
		Build()

	want := "INSERT INTO public.match_rankings (match_id, player_id, rank, score) VALUES (?, ?, ?, ?)" +
		" ON CONFLICT (match_id, player_id) DO UPDATE SET rank = EXCLUDED.rank, score = EXCLUDED.score"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestBuildInsertInvalid(t *testing.T) {
	// No rows at all
	query, args := NewQueryBuilder("public").Insert("a").Into("t").Build()
	if query != "" || args != nil {
		t.Errorf("expected empty build, got %q %v", query, args)
	}

	// Row width does not match the column list
	query, _ = NewQueryBuilder("public").
		Insert("a", "b").
		Into("t").
		Values(1).
		Build()
	if query != "" {
		t.Errorf("expected empty build for mismatched row, got %q", query)
	}
}
