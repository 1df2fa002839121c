package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/configs"
	emailModel "github.com/tuomas2/serviceform/internals/features/emails/emails/model"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	selectionModel "github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	taskModel "github.com/tuomas2/serviceform/internals/features/tasks/tasks/model"
)

var DB *gorm.DB

func ConnectDB() {
	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=serviceform&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: dsn,
		// Works with PgBouncer transaction pooling.
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("[ERROR] cannot connect to database: %v", err)
	}
	DB = db
	log.Println("[INFO] database connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Migrate() {
	err := DB.AutoMigrate(
		&memberModel.Organization{},
		&memberModel.Member{},
		&emailModel.EmailTemplate{},
		&emailModel.EmailMessage{},
		&formModel.ServiceForm{},
		&formModel.FormRevision{},
		&hierarchyModel.Level1Category{},
		&hierarchyModel.Level2Category{},
		&hierarchyModel.Activity{},
		&hierarchyModel.ActivityChoice{},
		&hierarchyModel.Question{},
		&participationModel.Participation{},
		&selectionModel.ParticipationActivity{},
		&selectionModel.ParticipationActivityChoice{},
		&selectionModel.QuestionAnswer{},
		&taskModel.Task{},
	)
	if err != nil {
		log.Fatalf("[ERROR] migration failed: %v", err)
	}
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("[WARN] warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
