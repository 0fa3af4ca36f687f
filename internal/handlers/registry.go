package handlers

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ClientHandler       *ClientHandler
	EquipmentHandler    *EquipmentHandler
	ServiceOrderHandler *ServiceOrderHandler
	AttachmentHandler   *AttachmentHandler
	FileHandler         *FileHandler
}
