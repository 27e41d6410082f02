// controllers/room_controller.go
package controllers

import (
	"log"
	"net/http"
	"strconv"

	"horizon-backend/models"
	"horizon-backend/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

func roomIDParam(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, http.StatusBadRequest, "error.invalidRoomId", "room id must be numeric")
		return 0, false
	}
	return uint(parsed), true
}

// GetRooms (GET /api/rooms)
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.GetAll()
	if err != nil {
		log.Printf("GetRooms error: %v", err)
		respondError(c, http.StatusInternalServerError, "error.fetchRooms", "could not retrieve rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom (GET /api/rooms/:id)
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom (POST /api/rooms)
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("CreateRoom bind error: %v", err)
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "invalid room payload")
		return
	}

	if err := ctrl.RoomSvc.Create(&room); err != nil {
		log.Printf("CreateRoom error: %v", err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   room,
	})
}

// UpdateRoom (PATCH/PUT /api/rooms/:id)
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}

	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		respondError(c, http.StatusBadRequest, "error.invalidPayload", "invalid room payload")
		return
	}
	room.ID = id

	if err := ctrl.RoomSvc.Update(&room); err != nil {
		log.Printf("UpdateRoom error (room %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	updated, err := ctrl.RoomSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   updated,
	})
}

// DeleteRoom (DELETE /api/rooms/:id) — refused while active bookings
// reference the room.
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.RoomSvc.Delete(id); err != nil {
		log.Printf("DeleteRoom error (room %d): %v", id, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "room deleted",
	})
}
