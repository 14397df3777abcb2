package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/repository"
)

func testStore(t *testing.T, name string, open func() repository.Store) {
	convey.Convey("Given a "+name+" store", t, func() {
		ctx := context.Background()
		store := open()
		defer store.Close()
		key := repository.Key{Session: "s1", Kind: repository.KindNullDist, Name: "euclidean-1"}

		convey.Convey("When reading a missing key", func() {
			_, err := store.Get(ctx, key)

			convey.Convey("Then it should report not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When writing and reading back", func() {
			convey.So(store.Put(ctx, key, []byte("first")), convey.ShouldBeNil)
			got, err := store.Get(ctx, key)

			convey.Convey("Then the payload should match", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(got), convey.ShouldEqual, "first")
			})

			convey.Convey("And a second write should replace it", func() {
				convey.So(store.Put(ctx, key, []byte("second")), convey.ShouldBeNil)
				got, err := store.Get(ctx, key)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(got), convey.ShouldEqual, "second")
			})

			convey.Convey("And other keys should stay independent", func() {
				other := key
				other.Name = "euclidean--1"
				_, err := store.Get(ctx, other)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})

			convey.Convey("And deleting should remove it", func() {
				convey.So(store.Delete(ctx, key), convey.ShouldBeNil)
				_, err := store.Get(ctx, key)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the key is incomplete", func() {
			err := store.Put(ctx, repository.Key{Session: "s1"}, []byte("x"))

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, repository.ErrInvalidKey), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, "memory", func() repository.Store { return repository.NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	n := 0
	testStore(t, "sqlite", func() repository.Store {
		n++
		s, err := repository.OpenSQLite(context.Background(), filepath.Join(dir, fmt.Sprintf("cache%d.db", n)))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return s
	})

	convey.Convey("Given a cache file written by one store", t, func() {
		ctx := context.Background()
		path := filepath.Join(dir, "persist.db")
		key := repository.Key{Session: "s1", Kind: repository.KindTrialGroup, Name: "default"}

		first, err := repository.OpenSQLite(ctx, path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(first.Put(ctx, key, []byte(`[1,2]`)), convey.ShouldBeNil)
		convey.So(first.Close(), convey.ShouldBeNil)

		convey.Convey("Then a reopened store should see the entry", func() {
			second, err := repository.OpenSQLite(ctx, path)
			convey.So(err, convey.ShouldBeNil)
			defer second.Close()
			got, err := second.Get(ctx, key)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(got), convey.ShouldEqual, `[1,2]`)
		})
	})
}
