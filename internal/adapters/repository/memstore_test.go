package repository_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/rosterlens/internal/adapters/repository"
	"github.com/okian/rosterlens/internal/adapters/source"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// fixture lays out a data root with three weeks and a season directory.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Full Season", "QB.csv"),
		"Rank,Player,FPTS,FPTS/G,G,ROST\n1,A (X),300,20,15,99.5%\n2,B (Y),200,20,10,80%\n")
	writeFile(t, filepath.Join(root, "Full Season", "RB.csv"),
		"Rank,Player,FPTS,G,ROST\n1,C (Z),150.5,12,75%\n")
	writeFile(t, filepath.Join(root, "Week 1", "QB.csv"), "Player,FPTS,G,ROST\nA (X),10,1,99%\nB (Y),25,1,80%\n")
	writeFile(t, filepath.Join(root, "Week 2", "QB.csv"), "Player,FPTS,G,ROST\nA (X),12,1,99%\nB (Y),5,1,80%\n")
	writeFile(t, filepath.Join(root, "Week 10", "QB.csv"), "Player,FPTS,G,ROST\nA (X),11,1,99%\nB (Y),5,1,80%\n")
	writeFile(t, filepath.Join(root, "Week 10", "RB.csv"), "Who,Points\nC (Z),3\n")
	return root
}

func TestMemoryStoreEmpty(t *testing.T) {
	Convey("Given a new store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("Then every table is an empty result", func() {
			_, err := store.Table(ctx, "", model.QB)
			So(model.IsEmpty(err), ShouldBeTrue)

			_, err = store.Table(ctx, "Week 1", model.QB)
			So(model.IsEmpty(err), ShouldBeTrue)
		})

		Convey("Then the snapshot is usable", func() {
			snap := store.Snapshot()
			So(snap, ShouldNotBeNil)
			So(snap.ID, ShouldNotBeEmpty)
			So(snap.Weeks(), ShouldBeEmpty)
			So(snap.Players().Lookup(model.QB, "A"), ShouldBeEmpty)
			So(snap.Stats().Rows, ShouldEqual, 0)
		})
	})
}

func TestMemoryStoreLoad(t *testing.T) {
	Convey("Given a data root", t, func() {
		root := fixture(t)
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithLoadWorkers(2))

		Convey("When loading the season", func() {
			report, err := store.LoadSeason(ctx, root)
			So(err, ShouldBeNil)
			So(report.Kind, ShouldEqual, repository.KindSeason)
			So(report.Tables, ShouldEqual, 2)
			So(report.Rows, ShouldEqual, 3)
			So(report.SnapshotID, ShouldEqual, store.Snapshot().ID)

			Convey("Then the table round-trips the source values", func() {
				tbl, err := store.Table(ctx, "", model.QB)
				So(err, ShouldBeNil)
				So(tbl.Records, ShouldHaveLength, 2)

				a := tbl.Records[0]
				So(a.Label, ShouldEqual, "A (X)")
				So(a.FantasyPoints, ShouldEqual, 300)
				So(a.GamesPlayed, ShouldEqual, 15)
				So(*a.PointsPerGame, ShouldEqual, 20)
				So(a.RosterPercentage, ShouldAlmostEqual, 0.995, 1e-12)
				So(*a.Rank, ShouldEqual, 1)

				rb, err := store.Table(ctx, "", model.RB)
				So(err, ShouldBeNil)
				So(rb.Records[0].FantasyPoints, ShouldEqual, 150.5)
			})

			Convey("Then weekly tables are still absent", func() {
				_, err := store.Table(ctx, "Week 1", model.QB)
				So(model.IsEmpty(err), ShouldBeTrue)
			})
		})

		Convey("When loading weekly tables", func() {
			report, err := store.LoadWeekly(ctx, root)
			So(err, ShouldBeNil)

			Convey("Then weeks are ordered by ordinal", func() {
				var labels []string
				for _, w := range store.Snapshot().Weeks() {
					labels = append(labels, w.Label)
				}
				So(labels, ShouldResemble, []string{"Week 1", "Week 2", "Week 10"})
				So(report.Weeks, ShouldEqual, 3)
			})

			Convey("Then a broken file is skipped with a warning", func() {
				So(report.Tables, ShouldEqual, 3)
				So(report.Warnings, ShouldHaveLength, 1)
				So(errors.Is(report.Warnings[0], model.ErrMissingColumn), ShouldBeTrue)
				So(report.WarningMessages()[0], ShouldContainSubstring, "RB.csv")

				_, err := store.Table(ctx, "Week 10", model.RB)
				So(model.IsEmpty(err), ShouldBeTrue)
			})

			Convey("Then a week can be addressed by label or number", func() {
				t1, err := store.Table(ctx, "Week 2", model.QB)
				So(err, ShouldBeNil)
				t2, err := store.Table(ctx, "2", model.QB)
				So(err, ShouldBeNil)
				So(t1, ShouldEqual, t2)
			})

			Convey("Then a week without digits is rejected", func() {
				_, err := store.Table(ctx, "last", model.QB)
				So(errors.Is(err, model.ErrInvalidArgument), ShouldBeTrue)
			})

			Convey("Then the player index spans the weeks", func() {
				obs := store.Snapshot().Players().Lookup(model.QB, "B")
				So(model.Points(obs), ShouldResemble, []float64{25, 5, 5})
			})

			Convey("And the season is loaded afterwards", func() {
				before := store.Snapshot()
				_, err := store.LoadSeason(ctx, root)
				So(err, ShouldBeNil)

				Convey("Then weekly tables survive", func() {
					_, err := store.Table(ctx, "Week 1", model.QB)
					So(err, ShouldBeNil)
					So(store.Snapshot().Warnings(), ShouldHaveLength, 1)
				})

				Convey("Then the previous snapshot is untouched", func() {
					So(store.Snapshot().ID, ShouldNotEqual, before.ID)
					_, ok := before.Season(model.QB)
					So(ok, ShouldBeFalse)
				})
			})

			Convey("And a smaller root is loaded", func() {
				other := t.TempDir()
				writeFile(t, filepath.Join(other, "Week 5", "QB.csv"), "Player,FPTS\nD (W),7\n")

				_, err := store.LoadWeekly(ctx, other)
				So(err, ShouldBeNil)

				Convey("Then weekly tables are replaced, not merged", func() {
					_, err := store.Table(ctx, "Week 1", model.QB)
					So(model.IsEmpty(err), ShouldBeTrue)

					tbl, err := store.Table(ctx, "Week 5", model.QB)
					So(err, ShouldBeNil)
					So(tbl.Records[0].GamesPlayed, ShouldEqual, 1)
					So(store.Snapshot().Warnings(), ShouldBeEmpty)
				})
			})
		})

		Convey("When the root does not exist", func() {
			_, err := store.LoadWeekly(ctx, root)
			So(err, ShouldBeNil)
			id := store.Snapshot().ID

			_, err = store.LoadWeekly(ctx, filepath.Join(root, "missing"))

			Convey("Then the load fails and the current snapshot is kept", func() {
				So(errors.Is(err, model.ErrSourceNotFound), ShouldBeTrue)
				So(store.Snapshot().ID, ShouldEqual, id)
			})
		})

		Convey("When the root has no week directories", func() {
			_, err := store.LoadWeekly(ctx, t.TempDir())
			So(errors.Is(err, repository.ErrNoSources), ShouldBeTrue)
			So(errors.Is(err, model.ErrSourceNotFound), ShouldBeTrue)
		})

		Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.LoadWeekly(cctx, root)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestMemoryStoreReload(t *testing.T) {
	Convey("Given a store and a data root", t, func() {
		root := fixture(t)
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When both halves load", func() {
			report, err := store.Reload(ctx, root)
			So(err, ShouldBeNil)

			Convey("Then one snapshot carries both halves", func() {
				So(report.Season, ShouldNotBeNil)
				So(report.Weekly, ShouldNotBeNil)
				So(report.Season.SnapshotID, ShouldEqual, report.Weekly.SnapshotID)
				So(store.Snapshot().ID, ShouldEqual, report.Season.SnapshotID)
				So(report.Errors, ShouldBeEmpty)

				_, err := store.Table(ctx, "", model.RB)
				So(err, ShouldBeNil)
				_, err = store.Table(ctx, "Week 10", model.QB)
				So(err, ShouldBeNil)
			})

			Convey("Then load warnings reach the report", func() {
				So(report.Warnings, ShouldHaveLength, 1)
				So(report.Warnings[0], ShouldContainSubstring, "RB.csv")
			})

			Convey("And a root without a season folder is reloaded", func() {
				other := t.TempDir()
				writeFile(t, filepath.Join(other, "Week 5", "QB.csv"), "Player,FPTS\nA (X),7\n")

				second, err := store.Reload(ctx, other)
				So(err, ShouldBeNil)

				Convey("Then the weekly half is replaced and the season half kept", func() {
					So(second.Season, ShouldBeNil)
					So(second.Weekly, ShouldNotBeNil)
					So(second.Errors, ShouldHaveLength, 1)
					So(second.Errors[0], ShouldContainSubstring, "load season")

					_, err := store.Table(ctx, "", model.QB)
					So(err, ShouldBeNil)
					_, err = store.Table(ctx, "Week 1", model.QB)
					So(model.IsEmpty(err), ShouldBeTrue)
				})
			})

			Convey("And both halves fail", func() {
				id := store.Snapshot().ID
				failed, err := store.Reload(ctx, filepath.Join(root, "missing"))

				Convey("Then nothing is published", func() {
					So(errors.Is(err, model.ErrSourceNotFound), ShouldBeTrue)
					So(failed.Errors, ShouldHaveLength, 2)
					So(store.Snapshot().ID, ShouldEqual, id)
				})
			})
		})
	})

	Convey("Given labels that match more than one weekly row", t, func() {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "Week 1", "TE.csv"), "Player,FPTS\nMike Smith Jr. (B),9\nMike Smith (A),4\n")
		writeFile(t, filepath.Join(root, "Full Season", "TE.csv"), "Player,FPTS,G,ROST\nMike Smith (A),40,10,5%\n")

		var buf bytes.Buffer
		l, err := logger.New(logger.WithWriter(&buf))
		So(err, ShouldBeNil)
		store := repository.NewMemoryStore(
			repository.WithLogger(l),
			repository.WithDiscovery(source.WithCategories([]model.Category{model.TE})),
		)

		report, err := store.Reload(context.Background(), root)
		So(err, ShouldBeNil)

		Convey("Then the ambiguity is a reload warning", func() {
			So(report.Weekly.Ambiguities, ShouldEqual, 1)
			So(report.Warnings, ShouldHaveLength, 1)
			So(report.Warnings[0], ShouldContainSubstring, "Mike Smith")
		})

		Convey("Then it is logged as a warning with its scope, source and snapshot", func() {
			out := buf.String()
			So(out, ShouldContainSubstring, "level=WARN")
			So(out, ShouldContainSubstring, "ambiguous player match")
			So(out, ShouldContainSubstring, "snapshot_id="+report.Weekly.SnapshotID)
			So(out, ShouldContainSubstring, "scope=\"Week 1/TE\"")
			So(out, ShouldContainSubstring, filepath.Join(root, "Week 1", "TE.csv"))
		})
	})
}

func TestMemoryStoreOptions(t *testing.T) {
	Convey("Given discovery and match options", t, func() {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "Wk 1", "TE.csv"), "Player,FPTS\nMIKE SMITH (A),4\nMike Smith Jr. (B),9\n")
		writeFile(t, filepath.Join(root, "Totals", "TE.csv"), "Player,FPTS,G,ROST\nMike Smith (A),40,10,5%\n")

		store := repository.NewMemoryStore(
			repository.WithMatchMode(identity.MatchSubstringFold),
			repository.WithDiscovery(
				source.WithWeekPrefix("Wk"),
				source.WithSeasonDir("Totals"),
				source.WithCategories([]model.Category{model.TE}),
			),
		)
		ctx := context.Background()

		_, err := store.LoadWeekly(ctx, root)
		So(err, ShouldBeNil)
		_, err = store.LoadSeason(ctx, root)
		So(err, ShouldBeNil)

		Convey("Then the configured directories and categories are used", func() {
			st := store.Snapshot().Stats()
			So(st.Categories, ShouldResemble, []string{"TE"})
			So(st.Weeks, ShouldResemble, []string{"Wk 1"})
			So(st.WeeklyTables, ShouldEqual, 1)
			So(st.SeasonTables, ShouldEqual, 1)
			So(st.MatchMode, ShouldEqual, "substring_fold")
		})

		Convey("Then the match mode reaches the index", func() {
			obs := store.Snapshot().Players().Lookup(model.TE, "Mike Smith")
			So(obs, ShouldHaveLength, 1)
			So(obs[0].Record.Label, ShouldEqual, "MIKE SMITH (A)")
			So(store.Snapshot().Stats().Ambiguities, ShouldEqual, 1)
		})
	})
}

func TestMemoryStoreConcurrentReads(t *testing.T) {
	Convey("Given readers running while loads swap snapshots", t, func() {
		root := fixture(t)
		ctx := context.Background()
		store := repository.NewMemoryStore()
		_, err := store.LoadWeekly(ctx, root)
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		failures := make(chan error, 64)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					tbl, err := store.Table(ctx, "Week 1", model.QB)
					if err != nil {
						failures <- err
						return
					}
					if tbl.Len() != 2 {
						failures <- errors.New("partial table observed")
						return
					}
				}
			}()
		}
		for i := 0; i < 5; i++ {
			_, err := store.LoadWeekly(ctx, root)
			So(err, ShouldBeNil)
		}
		wg.Wait()
		close(failures)

		Convey("Then readers only see complete snapshots", func() {
			So(len(failures), ShouldEqual, 0)
		})
	})
}
