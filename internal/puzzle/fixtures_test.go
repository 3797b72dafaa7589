package puzzle

import (
	"fmt"
	"strings"
)

const scholarsGame = `{"id":"abcd1234","perf":{"key":"blitz","name":"Blitz"},"rated":true,` +
	`"players":[{"userId":"alice","name":"Alice (1500)","color":"white"},` +
	`{"userId":"bob","name":"GM Bob (2500)","title":"GM","color":"black"}],` +
	`"pgn":"e4 e5 Bc4 Nc6 Qh5 Nf6","clock":"3+0"}`

func puzzleJSON(id string, rating int) string {
	return fmt.Sprintf(`{"game":%s,"puzzle":{"id":%q,"rating":%d,"plays":321,"initialPly":5,`+
		`"solution":["h5f7"],"themes":["mateIn1","short","mateIn1"]}}`, scholarsGame, id, rating)
}

func batchJSON(ids ...string) string {
	items := make([]string, 0, len(ids))
	for i, id := range ids {
		items = append(items, puzzleJSON(id, 1000+i))
	}
	return `{"puzzles":[` + strings.Join(items, ",") + `]}`
}
