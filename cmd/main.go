package main

import (
	"os"

	"caltrack/config"
	"caltrack/controllers"
	"caltrack/routes"
	"caltrack/services"
	"caltrack/utils"
)

func main() {
	utils.InitLogger(os.Getenv("LOG_LEVEL"))
	defer utils.SyncLogger()

	config.InitDB()

	openai := services.NewOpenAIService()
	usda := services.NewUSDAService()
	estimateSvc := services.NewEstimateService(openai, usda)
	assistantSvc := services.NewAssistantService(openai)
	logSvc := services.NewLogService(config.DB)

	// photo recognition is optional; without AWS credentials the endpoint
	// just reports itself unavailable
	recognitionSvc, err := services.NewRecognitionService()
	if err != nil {
		utils.Log.Warnw("photo recognition disabled", "error", err)
		recognitionSvc = nil
	}

	r := routes.SetupRouter(
		controllers.NewAuthController(assistantSvc),
		controllers.NewLogController(logSvc),
		controllers.NewEstimateController(estimateSvc, recognitionSvc),
		controllers.NewAssistantController(assistantSvc),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.Log.Infof("caltrack listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.Log.Fatalw("server exited", "error", err)
	}
}
