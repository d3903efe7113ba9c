package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
	pgloader "timed-quiz-service/internal/infra/postgres"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
	infraredis "timed-quiz-service/internal/infra/redis"
)

const bankID = "default"

func TestQuizAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL, sampleQuestions())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	banks := memory.NewBankRepository(pgloader.NewBankLoader(pool, bankID), 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessions, banks, app.DefaultLimits(), zap.NewNop())

	const sessionID = "integration-session"
	first, err := service.StartQuiz(ctx, sessionID, app.StartInput{
		Categories:       []string{"Go"},
		NumQuestions:     2,
		TimeLimitMinutes: 5,
	})
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	if first.Total != 2 || first.RemainingSeconds <= 0 || first.RemainingSeconds > 300 {
		t.Fatalf("unexpected first question: %+v", first)
	}

	// answer both questions correctly; without shuffle the display order
	// matches the stored option order
	for i := 0; i < 2; i++ {
		view, err := service.CurrentQuestion(ctx, sessionID)
		if err != nil {
			t.Fatalf("current question: %v", err)
		}
		choice := 0
		for j, opt := range view.Options {
			if strings.HasPrefix(opt, "correct") {
				choice = j
			}
		}
		if _, err := service.SubmitAnswer(ctx, sessionID, app.SubmitInput{SelectedOption: &choice}); err != nil {
			t.Fatalf("submit answer %d: %v", i+1, err)
		}
	}

	summary, err := service.Results(ctx, sessionID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if summary.Score != 2 || summary.Percent != 100 || summary.State != domain.StateCompleted {
		t.Fatalf("expected perfect completed attempt, got %+v", summary)
	}

	// the session survives in Redis: a fresh service instance sees the
	// same completed attempt
	rebuilt := app.NewQuizService(infraredis.NewSessionStore(redisClient, 5*time.Minute), banks, app.DefaultLimits(), zap.NewNop())
	again, err := rebuilt.Results(ctx, sessionID)
	if err != nil {
		t.Fatalf("results after reconnect: %v", err)
	}
	if again.Score != summary.Score {
		t.Fatalf("score changed across instances: %d vs %d", again.Score, summary.Score)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn string, questions []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		bankID, string(data)); err != nil {
		t.Fatalf("insert bank: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	var questions []domain.Question
	for i := 0; i < 4; i++ {
		questions = append(questions, domain.Question{
			Text:         fmt.Sprintf("Go question %d", i),
			Options:      []string{fmt.Sprintf("correct %d", i), "wrong a", "wrong b"},
			CorrectIndex: 0,
			Category:     "Go",
			Explanation:  "explained",
		})
	}
	return questions
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
