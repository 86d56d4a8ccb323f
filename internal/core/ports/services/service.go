package services

// ServiceContainer holds the application's service implementations behind
// their port interfaces, for injection into the HTTP layer.
type ServiceContainer struct {
	FxRate FxRateSvcFacade
}
