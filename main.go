package main

import (
	"goreddit/config"
	"goreddit/models"
	"goreddit/notify"
	"goreddit/routes"
	"goreddit/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Subreddit{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.VerificationToken{},
	)

	// Background worker draining the notification queue.
	worker := notify.NewWorker(cfg)
	go func() {
		if err := worker.Run(); err != nil {
			utils.Sugar.Errorf("notification worker stopped: %v", err)
		}
	}()

	enqueuer := notify.NewEnqueuer(cfg)
	defer enqueuer.Close()

	r := routes.SetupRouter(db, enqueuer)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
