package session_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/session"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/model"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/domain/tensor"
)

const validDoc = `{
	"id": "mouse1-2023-05-19",
	"bin_edges": [0, 0.5, 1, 1.5, 2],
	"probes": {"timestamps": [0.2, 1.2], "motions": [1, -1], "blocks": [0, 1]},
	"saccades": {"timestamps": [1.3], "motions": [-1], "blocks": [1]},
	"firing_rates": {"shape": [1, 2, 3], "data": [1, 2, 3, 4, 5, 6]}
}`

func TestDecode(t *testing.T) {
	convey.Convey("Given a valid session document", t, func() {
		s, err := session.Decode(strings.NewReader(validDoc))

		convey.Convey("Then every field should be loaded", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(s.ID, convey.ShouldEqual, "mouse1-2023-05-19")
			convey.So(s.BinEdges, convey.ShouldHaveLength, 5)
			convey.So(s.Probes.Len(), convey.ShouldEqual, 2)
			convey.So(s.Saccades.Motions, convey.ShouldResemble, []int{-1})
			convey.So(s.FiringRates.Dims(), convey.ShouldResemble, []int{1, 2, 3})
			convey.So(s.FiringRates.At(0, 1, 2), convey.ShouldEqual, 6)
		})

		convey.Convey("Then writing and decoding again should give the same session", func() {
			var buf bytes.Buffer
			convey.So(s.Write(&buf), convey.ShouldBeNil)
			again, err := session.Decode(&buf)
			convey.So(err, convey.ShouldBeNil)
			convey.So(again.Document(), convey.ShouldResemble, s.Document())
		})
	})

	convey.Convey("Given malformed documents", t, func() {
		cases := map[string]string{
			"bad json":     `{"id": `,
			"missing id":   `{"firing_rates": {"shape": [0, 0, 0], "data": []}}`,
			"2d rates":     strings.Replace(validDoc, `"shape": [1, 2, 3]`, `"shape": [2, 3]`, 1),
			"short stream": strings.Replace(validDoc, `"blocks": [0, 1]`, `"blocks": [0]`, 1),
			"unknown key":  strings.Replace(validDoc, `"id"`, `"extra": 1, "id"`, 1),
			"no units":     strings.Replace(validDoc, `"shape": [1, 2, 3], "data": [1, 2, 3, 4, 5, 6]`, `"shape": [0, 2, 3], "data": []`, 1),
			"no bins":      strings.Replace(validDoc, `"shape": [1, 2, 3], "data": [1, 2, 3, 4, 5, 6]`, `"shape": [1, 2, 0], "data": []`, 1),
		}
		for name, doc := range cases {
			_, err := session.Decode(strings.NewReader(doc))
			convey.So(errors.Is(err, session.ErrInvalidSession), convey.ShouldBeTrue)
			if name == "2d rates" {
				convey.So(errors.Is(err, tensor.ErrNotThreeDimensional), convey.ShouldBeTrue)
			}
			if name == "short stream" {
				convey.So(errors.Is(err, model.ErrLengthMismatch), convey.ShouldBeTrue)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given a session file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "session.json")
		convey.So(os.WriteFile(path, []byte(validDoc), 0o600), convey.ShouldBeNil)

		convey.Convey("Then Load should decode it", func() {
			s, err := session.Load(context.Background(), path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(s.FiringRates.Trials(), convey.ShouldEqual, 2)
		})

		convey.Convey("Then a missing file should fail", func() {
			_, err := session.Load(context.Background(), path+".missing")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
