package models

// Canonical column names produced by the loader.
const (
	FieldDate         = "Date"
	FieldAmount       = "Amount"
	FieldDescription  = "Description"
	FieldMerchantCode = "MCC"
)

// RequiredFields lists the canonical columns every import must provide.
var RequiredFields = []string{FieldDate, FieldAmount, FieldDescription}

// Categories
const (
	CategoryOther          = "Other"
	CategoryGroceries      = "Groceries"
	CategoryTransport      = "Transport"
	CategoryDining         = "Dining"
	CategoryEntertainment  = "Entertainment"
	CategoryUtilities      = "Utilities"
	CategoryHealthcare     = "Healthcare"
	CategoryShopping       = "Shopping"
	CategorySubscriptions  = "Subscriptions"
	CategoryTravel         = "Travel"
	CategoryEducation      = "Education"
	CategoryPersonalCare   = "Personal Care"
	CategoryFeesAndCharges = "Fees & Charges"
	CategoryGifts          = "Gifts & Donations"
)

// PermissionDirectory is the mode of directories created for outputs and stores.
const PermissionDirectory = 0750
