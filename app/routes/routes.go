package routes

import (
	"net/http"

	"taskboard/app/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/complete", taskController.CompleteTask).Methods(http.MethodPatch)
	router.HandleFunc("/api/health", taskController.Health).Methods(http.MethodGet)
}
