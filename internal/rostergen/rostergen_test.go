package rostergen_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/teamforge/internal/adapters/http/api"
	service "github.com/okian/teamforge/internal/app"
	"github.com/okian/teamforge/internal/domain/balancer"
	"github.com/okian/teamforge/internal/rostergen"
	"github.com/okian/teamforge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerateRoster(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		Convey("When generating a roster twice with the same seed", func() {
			a, err := rostergen.GenerateRoster(40, 0, rand.New(rand.NewSource(3)))
			So(err, ShouldBeNil)
			b, err := rostergen.GenerateRoster(40, 0, rand.New(rand.NewSource(3)))
			So(err, ShouldBeNil)

			Convey("Then both rosters are identical and valid", func() {
				So(a, ShouldResemble, b)
				ids := map[string]struct{}{}
				for _, p := range a {
					So(p.Rating, ShouldBeBetweenOrEqual, balancer.MinRating, balancer.MaxRating)
					So(p.ID, ShouldHaveLength, 36)
					ids[p.ID] = struct{}{}
				}
				So(ids, ShouldHaveLength, 40)
			})
		})

		Convey("When asking for invalid players", func() {
			players, err := rostergen.GenerateRoster(5, 2, rand.New(rand.NewSource(1)))
			So(err, ShouldBeNil)

			Convey("Then the first ones are out of range", func() {
				So(players[0].Rating, ShouldEqual, -5.0)
				So(players[1].Rating, ShouldEqual, 1000.0)
				So(players[2].Rating, ShouldBeBetweenOrEqual, 0.0, 999.99)
			})
		})

		Convey("When the arguments are inconsistent", func() {
			_, err := rostergen.GenerateRoster(3, 4, rand.New(rand.NewSource(1)))
			So(errors.Is(err, rostergen.ErrInvalidArgs), ShouldBeTrue)
		})
	})
}

func TestRunLocal(t *testing.T) {
	Convey("Given a local balancing config", t, func() {
		out := filepath.Join(t.TempDir(), "roster.json")
		cfg := &rostergen.Config{Players: 20, TeamSize: 4, Runs: 30, Seed: 11, OutputFile: out}
		var buf bytes.Buffer

		report, err := rostergen.RunLocal(context.Background(), cfg, &buf)

		Convey("Then the roster is balanced and reported", func() {
			So(err, ShouldBeNil)
			So(report.Teams, ShouldHaveLength, 5)
			So(report.RunsRequested, ShouldEqual, 30)
			So(buf.String(), ShouldContainSubstring, "TEAM1")
			So(buf.String(), ShouldContainSubstring, "players:")
		})

		Convey("And the roster file holds every player", func() {
			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			var players []rostergen.Player
			So(json.Unmarshal(data, &players), ShouldBeNil)
			So(players, ShouldHaveLength, 20)
		})
	})

	Convey("Given a roster that does not divide into teams", t, func() {
		cfg := &rostergen.Config{Players: 7, TeamSize: 5, Seed: 1}
		_, err := rostergen.RunLocal(context.Background(), cfg, &bytes.Buffer{})
		So(errors.Is(err, balancer.ErrCountNotDivisible), ShouldBeTrue)
	})
}

func newTestServer() *httptest.Server {
	svc := service.New(service.WithBalancerOptions(balancer.WithSeed(5)))
	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.WithRateLimit(1000, 1000)).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRunSubmit(t *testing.T) {
	Convey("Given a running teamforge server", t, func() {
		srv := newTestServer()
		defer srv.Close()

		Convey("When submitting a valid roster", func() {
			cfg := &rostergen.Config{BaseURL: srv.URL, Scope: "cup", Players: 25, Runs: 20, Seed: 9, Timeout: 5 * time.Second}
			var buf bytes.Buffer
			report, err := rostergen.RunSubmit(context.Background(), cfg, &buf)

			Convey("Then the stored assignment is reported", func() {
				So(err, ShouldBeNil)
				So(report.Scope, ShouldEqual, "cup")
				So(report.Generation, ShouldNotBeEmpty)
				So(report.Teams, ShouldHaveLength, 5)
				So(report.RunsRequested, ShouldEqual, 20)
				So(buf.String(), ShouldContainSubstring, report.Generation)
			})
		})

		Convey("When submitting a roster with bad ratings", func() {
			cfg := &rostergen.Config{BaseURL: srv.URL, Scope: "cup", Players: 10, Invalid: 2, Seed: 9, Timeout: 5 * time.Second}
			_, err := rostergen.RunSubmit(context.Background(), cfg, &bytes.Buffer{})

			Convey("Then the server's rejection surfaces", func() {
				So(errors.Is(err, rostergen.ErrServer), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "invalid_rating")
				So(err.Error(), ShouldContainSubstring, "Player 1, Player 2")
			})
		})
	})
}

func TestRootCommand(t *testing.T) {
	Convey("Given the rostergen command tree", t, func() {
		cmd := rostergen.NewRootCommand()

		Convey("Then it has balance and submit subcommands", func() {
			names := []string{}
			for _, c := range cmd.Commands() {
				names = append(names, c.Name())
			}
			So(names, ShouldContain, "balance")
			So(names, ShouldContain, "submit")
		})

		Convey("When running balance with flags", func() {
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"balance", "--players", "12", "--team-size", "3", "--runs", "10", "--seed", "4"})
			err := cmd.Execute()

			Convey("Then it prints four teams", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "TEAM4")
				So(out.String(), ShouldNotContainSubstring, "TEAM5")
			})
		})
	})
}
