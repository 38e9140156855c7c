package cases

// Case store event names. The draft events carry the citizen's answers while
// the claim is being filled in; the TSE events drive the application workflow
// after submission.
const (
	EventInitiateCaseDraft = "INITIATE_CASE_DRAFT"
	EventUpdateCaseDraft   = "UPDATE_CASE_DRAFT"
	EventSubmitCaseDraft   = "SUBMIT_CASE_DRAFT"

	EventSubmitClaimantTSE       = "SUBMIT_CLAIMANT_TSE"
	EventClaimantTSERespond      = "CLAIMANT_TSE_RESPOND"
	EventUpdateApplicationState  = "UPDATE_APPLICATION_STATE"
	EventUpdateNotificationState = "UPDATE_NOTIFICATION_STATE"
	EventStoreClaimantTSE        = "STORE_CLAIMANT_TSE"
	EventSubmitStoredClaimantTSE = "SUBMIT_STORED_CLAIMANT_TSE"
)
