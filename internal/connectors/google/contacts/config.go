package contacts

// PersonFields is the field set requested for every contact, both in the
// connections listing and the batch hydration. The exact string is part of
// the compatibility contract with the People API.
const PersonFields = "addresses,ageRanges,biographies,birthdays,braggingRights,coverPhotos," +
	"emailAddresses,events,genders,imClients,interests,locales,memberships,metadata,names," +
	"nicknames,occupations,organizations,phoneNumbers,photos,relations,relationshipInterests," +
	"relationshipStatuses,residences,sipAddresses,skills,taglines,urls,userDefined"

// GroupFields is the field set requested for contact groups.
const GroupFields = "clientData,groupType,memberCount,metadata,name"

const (
	// contactsPageSize is the page size for the connections listing.
	contactsPageSize = 2000
	// groupsPageSize is the page size for the contact groups listing.
	groupsPageSize = 1000
	// batchGetSize is how many resource names one batch-get call may carry.
	batchGetSize = 200

	// sortOrder puts the most recently modified contacts first.
	sortOrder = "LAST_MODIFIED_DESCENDING"
	// readSource restricts listings to user-created contacts.
	readSource = "READ_SOURCE_TYPE_CONTACT"
)
