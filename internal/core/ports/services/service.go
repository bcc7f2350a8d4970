package services

// ServiceContainer bundles the services handed to the HTTP layer.
type ServiceContainer struct {
	Account AccountService
	Entry   EntryService
	Summary SummaryService
}
