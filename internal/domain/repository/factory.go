package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
	Slots() SlotRepository
	Menu() MenuRepository
	Notifications() NotificationRepository
}
