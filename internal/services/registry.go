package services

import (
	"github.com/loki1512/MS-Fitness-Gym/internal/email"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	PlanService         PlanService
	MembershipService   MembershipService
	PaymentService      PaymentService
	ReportService       ReportService
	NotificationService NotificationService
	EmailService        email.Provider
}

// NewServiceContainer wires the services over stateless repositories. A nil
// clock means the system clock.
func NewServiceContainer(emailProvider email.Provider, clock Clock) *ServiceContainer {
	if clock == nil {
		clock = SystemClock
	}

	userRepo := repositories.NewUserRepository()
	planRepo := repositories.NewPlanRepository()
	membershipRepo := repositories.NewMembershipRepository()
	paymentRepo := repositories.NewPaymentRepository()

	notificationService := NewNotificationService(emailProvider, membershipRepo, clock)
	membershipService := NewMembershipService(userRepo, planRepo, membershipRepo, paymentRepo, clock)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, membershipRepo, clock),
		UserService:         NewUserService(userRepo, membershipRepo, paymentRepo, clock),
		PlanService:         NewPlanService(planRepo),
		MembershipService:   membershipService,
		PaymentService:      NewPaymentService(paymentRepo, planRepo, membershipService, notificationService, clock),
		ReportService:       NewReportService(userRepo, planRepo, membershipRepo, paymentRepo, clock),
		NotificationService: notificationService,
		EmailService:        emailProvider,
	}
}
