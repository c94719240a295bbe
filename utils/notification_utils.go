package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/MHaddad/fieldtrack_backend/config"
	"github.com/MHaddad/fieldtrack_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, employeeID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		Title:      title,
		Message:    message,
		Type:       notifType,
		Data:       data,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// NotifyReportDecision tells the authoring BDE that an admin approved
// or rejected their report, over every channel the employee has: an
// in-app notification always, email and FCM push on a best-effort
// basis.
func NotifyReportDecision(db *mongo.Client, bdeID primitive.ObjectID, reportType, decision, reason string) error {
	var employee models.Employee
	err := config.GetCollection(db, "employees").FindOne(context.Background(), bson.M{"_id": bdeID}).Decode(&employee)
	if err != nil {
		return fmt.Errorf("failed to find employee: %w", err)
	}

	title := fmt.Sprintf("%s report %s", reportType, decision)
	message := fmt.Sprintf("Your %s report has been %s.", reportType, decision)
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, reason)
	}

	if err := SaveNotification(db, bdeID, title, message, "report_"+decision, map[string]interface{}{
		"reportType": reportType,
		"decision":   decision,
	}); err != nil {
		log.Printf("Failed to save notification for %s: %v", bdeID.Hex(), err)
	}

	if employee.Email != "" {
		body := fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\nFieldTrack", employee.FullName, message)
		if err := sendEmail(employee.Email, title, body); err != nil {
			log.Printf("Failed to send email to %s: %v", employee.Email, err)
		}
	}

	if employee.FCMToken != "" {
		if err := sendFCM(employee.FCMToken, title, message, map[string]string{
			"type":       "report_" + decision,
			"reportType": reportType,
		}); err != nil {
			log.Printf("Failed to send FCM notification to %s: %v", bdeID.Hex(), err)
		}
	}

	return nil
}

func sendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

func sendFCM(token, title, message string, data map[string]string) error {
	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	if data == nil {
		data = map[string]string{}
	}
	data["timestamp"] = time.Now().Format(time.RFC3339)

	fcmMessage := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "fieldtrack_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent: %s", response)
	return nil
}
