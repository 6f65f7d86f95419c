package usecase

import (
	"strings"

	appdomain "jobtrail-backend/internal/application/domain"
)

// findMatchingApplication locates the user's application this message most
// likely refers to. Matching is deliberately loose (substring, not exact):
// the occasional cross-company false match is accepted to keep one mail
// thread from spawning duplicate applications.
func (u *syncUsecase) findMatchingApplication(userID, companyHint, subject string) (*appdomain.Application, error) {
	apps, err := u.appRepo.GetApplicationsForUser(userID)
	if err != nil {
		return nil, err
	}

	hint := strings.ToLower(strings.TrimSpace(companyHint))
	if hint != "" {
		for _, app := range apps {
			if strings.Contains(strings.ToLower(app.Name), hint) {
				return app, nil
			}
		}
	}

	subjectLower := strings.ToLower(subject)
	for _, app := range apps {
		name := strings.ToLower(app.Name)
		if name != "" && strings.Contains(subjectLower, name) {
			return app, nil
		}
		if fields := strings.Fields(strings.ToLower(app.Description)); len(fields) > 0 && strings.Contains(subjectLower, fields[0]) {
			return app, nil
		}
	}

	return nil, nil
}
