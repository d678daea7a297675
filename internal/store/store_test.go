package store

import (
	"os"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id, name string) SongRecord {
	return SongRecord{
		ID:       id,
		Name:     name,
		Artist:   "Artist",
		Album:    "Album",
		Duration: 3 * time.Minute,
		Filename: name + ".mp3",
		Data:     []byte("fake audio content for " + id),
	}
}

func TestPutSongs_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	records := []SongRecord{testRecord("s1", "one"), testRecord("s2", "two")}
	if err := s.PutSongs(records); err != nil {
		t.Fatalf("PutSongs: %v", err)
	}

	songs, err := s.GetAllSongs()
	if err != nil {
		t.Fatalf("GetAllSongs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len = %d, want 2", len(songs))
	}

	got := songs[0]
	if got.ID != "s1" || got.Name != "one" || got.Artist != "Artist" {
		t.Errorf("song = %+v", got)
	}
	if got.Duration != 3*time.Minute {
		t.Errorf("Duration = %v, want 3m", got.Duration)
	}
	if got.URL == "" {
		t.Fatal("URL should point at a materialized media file")
	}
	data, err := os.ReadFile(got.URL)
	if err != nil {
		t.Fatalf("read materialized file: %v", err)
	}
	if string(data) != "fake audio content for s1" {
		t.Errorf("materialized content = %q", data)
	}
}

func TestPutSongs_UpsertById(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutSongs([]SongRecord{testRecord("s1", "old name")}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutSongs([]SongRecord{testRecord("s1", "new name")}); err != nil {
		t.Fatal(err)
	}

	songs, err := s.GetAllSongs()
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 1 {
		t.Fatalf("len = %d, want 1 (upsert, not duplicate)", len(songs))
	}
	if songs[0].Name != "new name" {
		t.Errorf("Name = %q, want new name", songs[0].Name)
	}
}

func TestGetAllSongs_OmitsMissingBlob(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutSongs([]SongRecord{testRecord("s1", "one"), testRecord("s2", "two")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DB().Exec(`DELETE FROM song_files WHERE id = 's1'`); err != nil {
		t.Fatal(err)
	}

	songs, err := s.GetAllSongs()
	if err != nil {
		t.Fatalf("GetAllSongs: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != "s2" {
		t.Errorf("songs = %+v, want only s2", songs)
	}
}

func TestDeleteSong(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutSongs([]SongRecord{testRecord("s1", "one")}); err != nil {
		t.Fatal(err)
	}
	songs, _ := s.GetAllSongs()
	if len(songs) != 1 {
		t.Fatal("setup failed")
	}
	mediaPath := songs[0].URL

	if err := s.DeleteSong("s1"); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	songs, err := s.GetAllSongs()
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 0 {
		t.Errorf("len = %d, want 0", len(songs))
	}
	if _, err := os.Stat(mediaPath); !os.IsNotExist(err) {
		t.Error("materialized media file should be evicted")
	}
}

func TestPlaylists_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	p := Playlist{ID: "p1", Name: "Morning", SongIDs: []string{"a", "b", "c"}}
	if err := s.PutPlaylist(p); err != nil {
		t.Fatalf("PutPlaylist: %v", err)
	}

	got, err := s.GetAllPlaylists()
	if err != nil {
		t.Fatalf("GetAllPlaylists: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Name != "Morning" {
		t.Errorf("Name = %q", got[0].Name)
	}
	if len(got[0].SongIDs) != 3 || got[0].SongIDs[0] != "a" || got[0].SongIDs[2] != "c" {
		t.Errorf("SongIDs = %v, want [a b c] in order", got[0].SongIDs)
	}

	// Upsert replaces the song list
	p.SongIDs = []string{"c", "a"}
	if err := s.PutPlaylist(p); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetAllPlaylists()
	if len(got) != 1 || len(got[0].SongIDs) != 2 || got[0].SongIDs[0] != "c" {
		t.Errorf("after upsert SongIDs = %v, want [c a]", got[0].SongIDs)
	}
}

func TestDeletePlaylist(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutPlaylist(Playlist{ID: "p1", Name: "x", SongIDs: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePlaylist("p1"); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}

	got, err := s.GetAllPlaylists()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM playlist_songs`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("playlist_songs rows = %d, want 0", count)
	}
}
