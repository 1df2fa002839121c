package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	formRoute "github.com/tuomas2/serviceform/internals/features/forms/form/route"
	reportRoute "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/route"
	participationRoute "github.com/tuomas2/serviceform/internals/features/participation/participation/route"
	memberRoute "github.com/tuomas2/serviceform/internals/features/people/member/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	log.Println("[INFO] Setting up form routes...")
	formRoute.FormRoutes(app, db)

	log.Println("[INFO] Setting up participation routes...")
	participationRoute.ParticipationRoutes(app, db)

	log.Println("[INFO] Setting up member routes...")
	memberRoute.MemberRoutes(app, db)

	log.Println("[INFO] Setting up report routes...")
	reportRoute.ReportRoutes(app, db)
}
