package testutil

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
)

// RandomString generates a random lowercase string given the pseudo random source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range length {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}

// TempDbPath returns the path of a database file that does not exist yet,
// inside a directory removed at the end of the test.
func TempDbPath(t testing.TB) string {
	rndm := rand.New(rand.NewSource(rand.Int63()))
	return filepath.Join(t.TempDir(), fmt.Sprintf("%s.db", RandomString(rndm, 12)))
}

type Report struct {
	Kind   string
	Id     string
	Params []any
	Count  int64
}

// Recorder is a telemetry.API that keeps every report in memory.
type Recorder struct {
	mutex   sync.Mutex
	Reports []Report
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Reports = append(r.Reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: "broken", Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: "warning", Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: "debug", Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: "count", Id: id, Count: count})
}

// Find returns the reports of the given kind, in the order they were made.
func (r *Recorder) Find(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.Reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}
