package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/stemsi/reportcard-backend/internal/config"
	"github.com/stemsi/reportcard-backend/internal/database"
	"github.com/stemsi/reportcard-backend/internal/logger"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stemsi/reportcard-backend/internal/service"
)

var names = []string{
	"Aarav Shrestha", "Sita Gurung", "Bikash Thapa", "Anjali Rai", "Rohan Karki",
	"Pooja Magar", "Suman Adhikari", "Nisha Tamang", "Kiran Basnet", "Asmita Poudel",
	"Prakash Bhandari", "Sabina KC", "Dipesh Lama", "Manisha Shah", "Nabin Joshi",
	"Rekha Sharma", "Sagar Khadka", "Srijana Dahal", "Ujjwal Bista", "Kabita Oli",
}

func demoDocument() marksheet.Document {
	subjects := []marksheet.Subject{
		{Name: "English", MaxMarks: 100},
		{Name: "Mathematics", MaxMarks: 100},
		{Name: "Science", MaxMarks: 75},
		{Name: "Social Studies", MaxMarks: 50},
	}
	return marksheet.Document{
		Header: "Annual Examination Report",
		Footer: "Principal",
		Fields: []marksheet.FieldDef{
			{Label: "Name", Key: "name", Type: marksheet.FieldString, Required: true},
			{Label: "Roll No", Key: "rollNumber", Type: marksheet.FieldString},
			{Label: "Guardian", Key: "guardian", Type: marksheet.FieldString},
		},
		Exams: []marksheet.ExamGroup{
			{Term: "First Term", Subjects: subjects},
			{Term: "Final", Subjects: subjects},
		},
	}
}

func main() {
	var (
		count int
		seed  uint64
	)
	flag.IntVar(&count, "students", 20, "Number of students to enter")
	flag.Uint64Var(&seed, "seed", 1, "Seed for generated marks")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	store := repository.NewStore(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	schemaRepo := repository.NewSchemaRepository(pool)

	// Forms are compiled on demand; the server rebuilds its cache on start.
	schoolService := service.NewSchoolService(schoolRepo, service.NewMediaService(repository.NewMediaRepository(pool), cfg.MaxUploadBytes), log)
	classService := service.NewClassService(classRepo, schoolRepo, schemaRepo)
	schemaService := service.NewSchemaService(schemaRepo, classRepo, nil, log)
	submissionService := service.NewSubmissionService(schemaService, store, repository.NewMarkRepository(pool), nil, log)

	fmt.Printf("=== Seeding demo school with %d students ===\n", count)

	school, err := schoolService.Create(ctx, model.CreateSchoolRequest{Name: "Sunrise Secondary School", Address: "Lalitpur"}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create school")
	}

	class, err := classService.Create(ctx, school.ID, model.CreateClassRequest{Name: "Grade 8"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create class")
	}

	sf, err := schemaService.Create(ctx, class.ID, model.CreateSchemaRequest{Name: "Annual 2081", SchemaJSON: demoDocument()})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}
	if _, err := classService.SetActiveSchema(ctx, class.ID, sf.Schema.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to activate schema")
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < count; i++ {
		values := map[string]string{
			"name":       names[i%len(names)],
			"rollNumber": strconv.Itoa(i + 1),
			"guardian":   "Guardian of " + names[i%len(names)],
		}
		for _, slot := range sf.Form.Marks {
			// Between 35% and 100% of the subject maximum, whole marks.
			lo := int(slot.MaxMarks * 0.35)
			values[slot.Key] = strconv.Itoa(lo + rng.IntN(int(slot.MaxMarks)-lo+1))
		}

		summary, err := submissionService.Submit(ctx, sf.Schema.ID, values)
		if err != nil {
			log.Fatal().Err(err).Int("row", i+1).Msg("Failed to submit marksheet")
		}
		fmt.Printf("  %-20s %6.2f%%\n", summary.Name, summary.Percentage)
	}

	fmt.Printf("\nDone. School %d, class %d, schema %d\n", school.ID, class.ID, sf.Schema.ID)
}
