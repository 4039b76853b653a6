package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/okian/teamforge/internal/adapters/repository"
	service "github.com/okian/teamforge/internal/app"
	"github.com/okian/teamforge/internal/config"
	"github.com/okian/teamforge/internal/domain/balancer"
	"github.com/okian/teamforge/internal/domain/partition"
	"github.com/okian/teamforge/pkg/logger"
	"github.com/okian/teamforge/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func rating(v float64) *float64 { return &v }

// roster builds n players rated 50, 51, ... with ids p-0, p-1, ...
func roster(n int) []balancer.Player {
	players := make([]balancer.Player, n)
	for i := range players {
		players[i] = balancer.Player{
			ID:     fmt.Sprintf("p-%d", i),
			Label:  fmt.Sprintf("Player %d", i+1),
			Rating: rating(float64(50 + i)),
		}
	}
	return players
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithBalancerOptions(balancer.WithSeed(42)))

		Convey("Then it reports stopped stats with the default team size", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["teamSize"], ShouldEqual, 5)
			So(stats["storedScopes"], ShouldEqual, 0)
		})

		Convey("When starting and stopping it", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)

			svc.Stop()
			svc.Stop()

			Convey("Then it is marked stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_GenerateTeams(t *testing.T) {
	Convey("Given a service with a seeded balancer", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(
			service.WithStore(store),
			service.WithBalancerOptions(balancer.WithSeed(42), balancer.WithParallelism(2)),
		)

		Convey("When generating teams for a 20 player roster", func() {
			runs := 50
			a, stored, err := svc.GenerateTeams(ctx, "spring-cup", roster(20), &runs)

			Convey("Then four teams are returned and stored", func() {
				So(err, ShouldBeNil)
				So(a.Teams, ShouldHaveLength, 4)
				So(stored.Scope, ShouldEqual, "spring-cup")
				So(stored.Generation, ShouldNotBeEmpty)
				So(stored.Teams, ShouldHaveLength, 4)
				for i, team := range stored.Teams {
					So(team.TeamID, ShouldEqual, a.Teams[i].TeamID)
					So(team.MemberIDs, ShouldResemble, a.Teams[i].MemberIDs())
				}
			})

			Convey("And Teams returns the stored assignment", func() {
				got, err := svc.Teams(ctx, "spring-cup")
				So(err, ShouldBeNil)
				So(got.Generation, ShouldEqual, stored.Generation)
				So(svc.GetStats()["generations"], ShouldEqual, int64(1))
			})

			Convey("And generating again replaces the previous assignment", func() {
				_, again, err := svc.GenerateTeams(ctx, "spring-cup", roster(10), nil)
				So(err, ShouldBeNil)
				got, err := svc.Teams(ctx, "spring-cup")
				So(err, ShouldBeNil)
				So(got.Generation, ShouldEqual, again.Generation)
				So(got.Teams, ShouldHaveLength, 2)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And ClearTeams removes it", func() {
				So(svc.ClearTeams(ctx, "spring-cup"), ShouldBeNil)
				_, err := svc.Teams(ctx, "spring-cup")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the roster is invalid", func() {
			_, _, err := svc.GenerateTeams(ctx, "spring-cup", roster(7), nil)

			Convey("Then the error is returned and nothing is stored", func() {
				So(errors.Is(err, balancer.ErrCountNotDivisible), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the scope is blank", func() {
			_, _, err := svc.GenerateTeams(ctx, " ", roster(5), nil)

			Convey("Then the store rejects it", func() {
				So(errors.Is(err, repository.ErrInvalidScope), ShouldBeTrue)
			})
		})
	})
}

func TestService_Failures(t *testing.T) {
	Convey("Given a service whose optimizer misbehaves", t, func() {
		ctx := context.Background()

		Convey("When the optimizer returns an error", func() {
			svc := service.New(service.WithBalancerOptions(
				balancer.WithOptimizer(func([]partition.Participant, int, int, int, partition.Source, ...partition.Option) (partition.RunResult, error) {
					return partition.RunResult{}, errors.New("boom")
				}),
			))
			_, _, err := svc.GenerateTeams(ctx, "cup", roster(10), nil)

			Convey("Then an internal fault surfaces", func() {
				So(errors.Is(err, balancer.ErrInternal), ShouldBeTrue)
				So(service.ValidationKind(err), ShouldBeEmpty)
			})
		})
	})
}

func TestValidationKind(t *testing.T) {
	Convey("Given balancer validation errors", t, func() {
		cases := map[error]string{
			balancer.ErrEmptyRoster:                                  metrics.KindEmptyRoster,
			&balancer.CountNotDivisibleError{Count: 7, Divisor: 5}:   metrics.KindNotDivisible,
			&balancer.InvalidRatingError{Labels: []string{"x"}}:      metrics.KindInvalidRating,
			&balancer.DuplicateIDError{IDs: []string{"a"}}:           metrics.KindDuplicateID,
			&balancer.RunCountOutOfRangeError{Requested: 0, Max: 10}: metrics.KindRunCount,
			balancer.ErrInternal:                                     "",
		}

		Convey("Then each maps to its metrics kind", func() {
			for err, kind := range cases {
				So(service.ValidationKind(err), ShouldEqual, kind)
			}
		})
	})
}

func TestService_WithConfig(t *testing.T) {
	Convey("Given a config with a custom team size and run limit", t, func() {
		cfg := config.New()
		cfg.TeamSize = 3
		cfg.DefaultRuns = 20
		cfg.MaxRuns = 40
		cfg.Seed = 99
		cfg.TimeoutPolicy = "fail"
		svc := service.New(service.WithConfig(cfg))

		Convey("Then the service balances with those settings", func() {
			So(svc.TeamSize(), ShouldEqual, 3)
			So(svc.GetStats()["maxRuns"], ShouldEqual, 40)

			a, _, err := svc.GenerateTeams(context.Background(), "cfg", roster(9), nil)
			So(err, ShouldBeNil)
			So(a.Teams, ShouldHaveLength, 3)
			So(a.RunsRequested, ShouldEqual, 20)

			over := 41
			_, _, err = svc.GenerateTeams(context.Background(), "cfg", roster(9), &over)
			So(errors.Is(err, balancer.ErrRunCountOutOfRange), ShouldBeTrue)
		})

		Convey("And a fixed seed makes results repeatable", func() {
			other := service.New(service.WithConfig(cfg))
			a, _, err := svc.GenerateTeams(context.Background(), "x", roster(9), nil)
			So(err, ShouldBeNil)
			b, _, err := other.GenerateTeams(context.Background(), "x", roster(9), nil)
			So(err, ShouldBeNil)
			for i := range a.Teams {
				So(a.Teams[i].MemberIDs(), ShouldResemble, b.Teams[i].MemberIDs())
			}
		})
	})
}
