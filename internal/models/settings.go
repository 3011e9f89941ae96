package models

import "time"

// Settings is the per-shop configuration document. It is stored as one JSON
// blob per shop domain and created lazily with defaults on first read.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Email         EmailSettings        `json:"email"`
	Notifications NotificationSettings `json:"notifications"`
	Delivery      DeliverySettings     `json:"delivery"`
}

type GeneralSettings struct {
	CodEnabled   bool   `json:"codEnabled"`
	CompanyName  string `json:"companyName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
}

type EmailSettings struct {
	EmailService  string `json:"emailService"` // "gmail" or "smtp"
	GmailAddress  string `json:"gmailAddress"`
	GmailPassword string `json:"gmailPassword"`
	SMTPHost      string `json:"smtpHost"`
	SMTPPort      int    `json:"smtpPort"`
	SMTPUser      string `json:"smtpUser"`
	SMTPPass      string `json:"smtpPass"`
	SenderEmail   string `json:"senderEmail"`
	SenderName    string `json:"senderName"`
}

type NotificationSettings struct {
	CustomerConfirmation bool     `json:"customerConfirmation"`
	CustomerShipped      bool     `json:"customerShipped"`
	AdminNotification    bool     `json:"adminNotification"`
	AdminEmails          []string `json:"adminEmails"`
	ConfirmationMessage  string   `json:"confirmationMessage"`
	PaymentInstructions  string   `json:"paymentInstructions"`
}

type DeliverySettings struct {
	DeliveryFee           float64  `json:"deliveryFee"`
	FreeDeliveryEnabled   bool     `json:"freeDeliveryEnabled"`
	FreeDeliveryThreshold float64  `json:"freeDeliveryThreshold"`
	DeliveryCities        []string `json:"deliveryCities"`
	DeliveryTime          string   `json:"deliveryTime"`
}

// MerchantSettings is the storage row wrapping one Settings document.
type MerchantSettings struct {
	ID         uint      `json:"id"          gorm:"primary_key"`
	ShopDomain string    `json:"shop_domain" gorm:"type:varchar(255);unique_index;not null"`
	Settings   string    `json:"-"           gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MerchantSettings) TableName() string { return "merchant_settings" }

// DefaultSettings are handed out for shops that never saved anything.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			CodEnabled: true,
		},
		Email: EmailSettings{
			EmailService: "gmail",
			SMTPPort:     587,
		},
		Notifications: NotificationSettings{
			CustomerConfirmation: true,
			AdminNotification:    true,
			AdminEmails:          []string{},
			ConfirmationMessage:  "Merci pour votre commande ! Vous serez contacté sous peu pour confirmer la livraison.",
			PaymentInstructions:  "Vous paierez directement au livreur lors de la réception de votre commande. Merci de préparer le montant exact.",
		},
		Delivery: DeliverySettings{
			DeliveryFee:           30,
			FreeDeliveryThreshold: 500,
			DeliveryCities:        []string{"Casablanca", "Rabat", "Marrakech", "Fès", "Tanger"},
			DeliveryTime:          "48h",
		},
	}
}
