package domain

// Action is a capability that can be granted to a role
type Action int

const (
	ActionSubmitApplication Action = iota
	ActionAttachDocuments
	ActionViewAllRecords
	ActionReviewApplication
	ActionTransferApplication
	ActionVerifyDocument
	ActionRecordPayment
	ActionViewTransactions
	ActionManageProducts
	ActionManageUsers
	ActionViewReports
)

// Actions lists every action, used to check the capability matrix
var Actions = []Action{
	ActionSubmitApplication,
	ActionAttachDocuments,
	ActionViewAllRecords,
	ActionReviewApplication,
	ActionTransferApplication,
	ActionVerifyDocument,
	ActionRecordPayment,
	ActionViewTransactions,
	ActionManageProducts,
	ActionManageUsers,
	ActionViewReports,
}

func (a Action) String() string {
	switch a {
	case ActionSubmitApplication:
		return "submit_application"
	case ActionAttachDocuments:
		return "attach_documents"
	case ActionViewAllRecords:
		return "view_all_records"
	case ActionReviewApplication:
		return "review_application"
	case ActionTransferApplication:
		return "transfer_application"
	case ActionVerifyDocument:
		return "verify_document"
	case ActionRecordPayment:
		return "record_payment"
	case ActionViewTransactions:
		return "view_transactions"
	case ActionManageProducts:
		return "manage_products"
	case ActionManageUsers:
		return "manage_users"
	case ActionViewReports:
		return "view_reports"
	}
	return "unknown"
}

// Can reports whether role is allowed to perform action.
// Unknown roles are denied everything.
func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		switch action {
		case ActionVerifyDocument, ActionRecordPayment:
			return false
		}
		return true
	case RoleManager:
		switch action {
		case ActionSubmitApplication, ActionAttachDocuments, ActionViewAllRecords,
			ActionReviewApplication, ActionTransferApplication,
			ActionViewTransactions, ActionManageProducts:
			return true
		}
		return false
	case RoleCashier:
		switch action {
		case ActionSubmitApplication, ActionVerifyDocument,
			ActionRecordPayment, ActionViewTransactions:
			return true
		}
		return false
	case RoleBorrower:
		switch action {
		case ActionSubmitApplication, ActionAttachDocuments:
			return true
		}
		return false
	}
	return false
}
