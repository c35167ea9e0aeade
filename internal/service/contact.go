package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	MsgContactThanks        = "Thank you for contacting us!"
	MsgContactMissingFields = "Please fill out all fields!"
)

// ContactForm is the storefront contact form
type ContactForm struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required"`
	Message string `form:"message" json:"message" validate:"required"`
}

type ContactService struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContactService creates a new contact form service
func NewContactService(logger *zap.Logger) *ContactService {
	v := validator.New()
	// Report fields by their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &ContactService{
		validate: v,
		logger:   logger,
	}
}

// Submit validates the form. Nothing is sent anywhere; the returned
// notification is what the user should see. A form with empty fields returns
// ErrMissingFormField alongside the failure notification.
func (s *ContactService) Submit(form ContactForm) (domain.Notification, error) {
	if err := s.validate.Struct(form); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.Notification{}, err
		}

		missing := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			missing = append(missing, fe.Field())
		}

		metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		s.logger.Info("Contact form rejected", zap.Strings("missing", missing))
		return domain.Notification{
			Kind:    domain.NotificationError,
			Message: MsgContactMissingFields,
		}, &errors.ErrMissingFormField{Fields: missing}
	}

	metrics.ContactSubmissionsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Contact form accepted", zap.String("email", form.Email))
	return domain.Notification{
		Kind:    domain.NotificationSuccess,
		Message: MsgContactThanks,
	}, nil
}
