package email

const (
	subjectOfferFinalizedFmt   = "Votre offre %s est prête"
	subjectApprovalAcceptedFmt = "Offre %s : accord du client enregistré"
	subjectApprovalRejectedFmt = "Offre %s : refus du client enregistré"
	subjectOfferExpiredFmt     = "Offre %s expirée"
)
