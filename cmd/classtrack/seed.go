// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/classtrack/classtrack/internal/auth"
	authpg "github.com/classtrack/classtrack/internal/auth/postgres"
	"github.com/classtrack/classtrack/internal/store"
	"github.com/classtrack/classtrack/internal/tracker"
	trackerpg "github.com/classtrack/classtrack/internal/tracker/postgres"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedFile is the YAML shape of a seed fixture.
type seedFile struct {
	Users      []seedUser      `yaml:"users"`
	Classrooms []seedClassroom `yaml:"classrooms"`
}

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedClassroom struct {
	ID          string   `yaml:"id"`      // fixed ULID so reruns do not duplicate
	Teacher     string   `yaml:"teacher"` // teacher email
	Name        string   `yaml:"name"`
	Subject     string   `yaml:"subject"`
	Description string   `yaml:"description"`
	Students    []string `yaml:"students"` // student emails to enroll
}

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load seed data from a YAML fixture",
		Long: `Creates users, classrooms, and enrollments from a YAML fixture.
This command is idempotent - existing users, classrooms, and enrollments
are skipped on rerun.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seed.yaml", "seed fixture path")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	databaseURL, err := databaseURLFromCommand(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return oops.Code("SEED_FILE_FAILED").With("path", cfg.file).Wrap(err)
	}
	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return oops.Code("SEED_PARSE_FAILED").With("path", cfg.file).Wrap(err)
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.NewPool(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	users := authpg.NewUserRepository(pool)
	classrooms := trackerpg.NewClassroomRepository(pool)
	hasher := auth.NewArgon2idHasher()

	for _, su := range seeds.Users {
		if err := seedOneUser(ctx, cmd, users, hasher, su); err != nil {
			return err
		}
	}
	for _, sc := range seeds.Classrooms {
		if err := seedOneClassroom(ctx, cmd, users, classrooms, sc); err != nil {
			return err
		}
	}

	cmd.Println("Seed completed")
	return nil
}

func seedOneUser(ctx context.Context, cmd *cobra.Command, users *authpg.UserRepository, hasher *auth.Argon2idHasher, su seedUser) error {
	hash, err := hasher.Hash(su.Password)
	if err != nil {
		return oops.Code("SEED_FAILED").With("email", su.Email).Wrap(err)
	}
	user, err := auth.NewUser(su.Name, su.Email, hash, tracker.Role(su.Role))
	if err != nil {
		return oops.Code("SEED_FAILED").With("email", su.Email).Wrap(err)
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			cmd.Printf("User %s already exists, skipping\n", user.Email)
			return nil
		}
		return oops.Code("SEED_FAILED").With("email", su.Email).Wrap(err)
	}
	cmd.Printf("Created user %s (%s)\n", user.Email, user.Role)
	return nil
}

func seedOneClassroom(ctx context.Context, cmd *cobra.Command, users *authpg.UserRepository, classrooms *trackerpg.ClassroomRepository, sc seedClassroom) error {
	id, err := ulid.Parse(sc.ID)
	if err != nil {
		return oops.Code("SEED_FAILED").With("classroom", sc.Name).Errorf("classroom id must be a ULID, got %q", sc.ID)
	}
	teacher, err := users.GetByEmail(ctx, auth.NormalizeEmail(sc.Teacher))
	if err != nil {
		return oops.Code("SEED_FAILED").With("classroom", sc.Name).With("teacher", sc.Teacher).Wrap(err)
	}

	c := &tracker.Classroom{
		ID:          id,
		TeacherID:   teacher.ID,
		Name:        sc.Name,
		Subject:     sc.Subject,
		Description: sc.Description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return oops.Code("SEED_FAILED").With("classroom", sc.Name).Wrap(err)
	}

	if err := classrooms.Create(ctx, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			cmd.Printf("Classroom %s already exists, skipping create\n", sc.Name)
		} else {
			return oops.Code("SEED_FAILED").With("classroom", sc.Name).Wrap(err)
		}
	} else {
		cmd.Printf("Created classroom %s\n", sc.Name)
	}

	for _, email := range sc.Students {
		studentID, err := users.FindStudentByEmail(ctx, auth.NormalizeEmail(email))
		if err != nil {
			return oops.Code("SEED_FAILED").With("classroom", sc.Name).With("student", email).Wrap(err)
		}
		if err := classrooms.AddStudent(ctx, id, studentID); err != nil {
			if errors.Is(err, tracker.ErrConflict) {
				continue
			}
			return oops.Code("SEED_FAILED").With("classroom", sc.Name).With("student", email).Wrap(err)
		}
		cmd.Printf("Enrolled %s in %s\n", email, sc.Name)
	}
	return nil
}
