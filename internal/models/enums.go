package models

// Enumerations are stored by tag; labels are derived when building responses.

type ApplicationStatus string

const (
	StatusApplied             ApplicationStatus = "APPLIED"
	StatusPhoneScreen         ApplicationStatus = "PHONE_SCREEN"
	StatusTechnicalInterview  ApplicationStatus = "TECHNICAL_INTERVIEW"
	StatusBehavioralInterview ApplicationStatus = "BEHAVIORAL_INTERVIEW"
	StatusFinalRound          ApplicationStatus = "FINAL_ROUND"
	StatusOffer               ApplicationStatus = "OFFER"
	StatusRejected            ApplicationStatus = "REJECTED"
	StatusWithdrawn           ApplicationStatus = "WITHDRAWN"
)

var statusLabels = map[ApplicationStatus]string{
	StatusApplied:             "Applied",
	StatusPhoneScreen:         "Phone Screen",
	StatusTechnicalInterview:  "Technical Interview",
	StatusBehavioralInterview: "Behavioral Interview",
	StatusFinalRound:          "Final Round",
	StatusOffer:               "Offer",
	StatusRejected:            "Rejected",
	StatusWithdrawn:           "Withdrawn",
}

func (s ApplicationStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display name, or the raw tag for unknown values.
func (s ApplicationStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type ActivityType string

const (
	ActivityApplicationSubmitted ActivityType = "APPLICATION_SUBMITTED"
	ActivityPhoneScreen          ActivityType = "PHONE_SCREEN"
	ActivityTechnicalInterview   ActivityType = "TECHNICAL_INTERVIEW"
	ActivityBehavioralInterview  ActivityType = "BEHAVIORAL_INTERVIEW"
	ActivitySystemDesign         ActivityType = "SYSTEM_DESIGN"
	ActivityCodingTest           ActivityType = "CODING_TEST"
	ActivityTakeHomeAssignment   ActivityType = "TAKE_HOME_ASSIGNMENT"
	ActivityFinalRound           ActivityType = "FINAL_ROUND"
	ActivityOfferCall            ActivityType = "OFFER_CALL"
	ActivityRejection            ActivityType = "REJECTION"
	ActivityFollowUpEmail        ActivityType = "FOLLOW_UP_EMAIL"
	ActivityNetworkingCoffee     ActivityType = "NETWORKING_COFFEE"
	ActivityInfoSession          ActivityType = "INFO_SESSION"
	ActivityReferenceCheck       ActivityType = "REFERENCE_CHECK"
	ActivityOther                ActivityType = "OTHER"
)

var activityLabels = map[ActivityType]string{
	ActivityApplicationSubmitted: "Application Submitted",
	ActivityPhoneScreen:          "Phone Screen",
	ActivityTechnicalInterview:   "Technical Interview",
	ActivityBehavioralInterview:  "Behavioral Interview",
	ActivitySystemDesign:         "System Design Interview",
	ActivityCodingTest:           "Coding Test",
	ActivityTakeHomeAssignment:   "Take Home Assignment",
	ActivityFinalRound:           "Final Round Interview",
	ActivityOfferCall:            "Offer Call",
	ActivityRejection:            "Rejection",
	ActivityFollowUpEmail:        "Follow-up Email",
	ActivityNetworkingCoffee:     "Networking Coffee",
	ActivityInfoSession:          "Information Session",
	ActivityReferenceCheck:       "Reference Check",
	ActivityOther:                "Other",
}

func (t ActivityType) Valid() bool {
	_, ok := activityLabels[t]
	return ok
}

func (t ActivityType) Label() string {
	if l, ok := activityLabels[t]; ok {
		return l
	}
	return string(t)
}

type AttachmentType string

const (
	AttachmentResume               AttachmentType = "RESUME"
	AttachmentCoverLetter          AttachmentType = "COVER_LETTER"
	AttachmentPortfolio            AttachmentType = "PORTFOLIO"
	AttachmentTranscript           AttachmentType = "TRANSCRIPT"
	AttachmentCertification        AttachmentType = "CERTIFICATION"
	AttachmentWorkSamples          AttachmentType = "WORK_SAMPLES"
	AttachmentAssignmentSubmission AttachmentType = "ASSIGNMENT_SUBMISSION"
	AttachmentOther                AttachmentType = "OTHER"
)

var attachmentLabels = map[AttachmentType]string{
	AttachmentResume:               "Resume",
	AttachmentCoverLetter:          "Cover Letter",
	AttachmentPortfolio:            "Portfolio",
	AttachmentTranscript:           "Transcript",
	AttachmentCertification:        "Certification",
	AttachmentWorkSamples:          "Work Samples",
	AttachmentAssignmentSubmission: "Assignment Submission",
	AttachmentOther:                "Other",
}

func (t AttachmentType) Valid() bool {
	_, ok := attachmentLabels[t]
	return ok
}

func (t AttachmentType) Label() string {
	if l, ok := attachmentLabels[t]; ok {
		return l
	}
	return string(t)
}
