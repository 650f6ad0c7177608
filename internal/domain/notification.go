package domain

type NotificationType string

const (
	NotificationTypeBooking  NotificationType = "BOOKING"
	NotificationTypePayment  NotificationType = "PAYMENT"
	NotificationTypeInquiry  NotificationType = "INQUIRY"
	NotificationTypeSystem   NotificationType = "SYSTEM"
	NotificationTypeFeedback NotificationType = "FEEDBACK"
)

// NotificationData is the tagged payload variant carried by a notification.
// Each variant fixes the notification type, so a consumer switching on the
// concrete type covers every case the producer can emit.
type NotificationData interface {
	NotificationType() NotificationType
}

type BookingNotificationData struct {
	BookingID   string `json:"booking_id"`
	BookingCode string `json:"booking_code"`
	Status      string `json:"status"`
}

func (BookingNotificationData) NotificationType() NotificationType { return NotificationTypeBooking }

type PaymentNotificationData struct {
	BookingID   string  `json:"booking_id"`
	BookingCode string  `json:"booking_code"`
	Amount      float64 `json:"amount"`
}

func (PaymentNotificationData) NotificationType() NotificationType { return NotificationTypePayment }

type InquiryNotificationData struct {
	InquiryID string `json:"inquiry_id"`
	Subject   string `json:"subject"`
}

func (InquiryNotificationData) NotificationType() NotificationType { return NotificationTypeInquiry }

type SystemNotificationData struct {
	Event string `json:"event"`
}

func (SystemNotificationData) NotificationType() NotificationType { return NotificationTypeSystem }

type FeedbackNotificationData struct {
	FeedbackID string `json:"feedback_id"`
}

func (FeedbackNotificationData) NotificationType() NotificationType { return NotificationTypeFeedback }

type Notification struct {
	UserID  string
	Title   string
	Message string
	Data    NotificationData
}

// Type derives the notification type from its payload variant.
func (n Notification) Type() NotificationType {
	if n.Data == nil {
		return NotificationTypeSystem
	}
	return n.Data.NotificationType()
}
