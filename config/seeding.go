package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/fleettrack/models"
)

// legacyLocations is the managed location list the system ships with.
// Operators extend it through the locations endpoint afterwards.
var legacyLocations = []string{
	"Андрушівка", "Баранівка", "Бараші", "Бердичів місто", "Бердичівський р-н",
	"Білокоровичі", "Бондарі", "Брусилів", "Городниця", "Ємільчино",
	"Житомир ППБ1", "Житомир Центр", "Житомир Центр ПС1", "Житомир Центр ПС2",
	"Звягель", "Іванопіль", "Іршанск", "Корнин", "Коростень місто",
	"Коростень р-н", "Коростишів", "Лугини", "Любар", "Малин", "Миропіль",
	"Н.Борова", "Народичі", "Овруч", "Олевск", "Поліське", "Попільня",
	"Потіївка", "Пулини", "Радовель", "Радомишль", "Романів", "Ружин",
	"сим в АССу", "Словечне", "Тойота", "установ на Тойота", "Хорошів",
	"Черняхів", "Чоповичі", "Чуднів", "Ярунь", "Other",
}

// SeedLocations inserts the legacy location list, skipping names that
// already exist.
func SeedLocations(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Location{}).Count(&count).Error; err != nil {
		log.Printf("Location seeding skipped: %v", err)
		return
	}
	if count > 0 {
		return
	}
	for _, name := range legacyLocations {
		loc := models.Location{Name: name}
		if err := db.Create(&loc).Error; err != nil {
			log.Printf("Error seeding location %q: %v", name, err)
		}
	}
	log.Printf("Seeded %d locations", len(legacyLocations))
}

// SeedAdminUser creates the default admin account when no users exist.
// The password comes from ADMIN_PASSWORD and should be changed on first
// login.
func SeedAdminUser(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("Admin seeding skipped: %v", err)
		return
	}
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Welcome@123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        "admin@fleettrack.local",
		PasswordHash: string(hash),
		Role:         "admin",
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	log.Println("Seeded default admin user", admin.Email)
}
