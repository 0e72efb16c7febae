package mets

import "github.com/lehigh-university-libraries/oaistruct/internal/query"

// Locations inside an OAI-PMH GetRecord response carrying a METS record.
var (
	metsRoot    = query.Root("OAI-PMH", "GetRecord", "record", "metadata", "mets")
	logicalMap  = metsRoot.Child("structMap").Where("TYPE", "LOGICAL")
	physicalMap = metsRoot.Child("structMap").Where("TYPE", "PHYSICAL")
	structLink  = metsRoot.Child("structLink")
)

func logicalDivs() query.Path {
	return logicalMap.Descendant("div")
}

func logicalDiv(logicalID string) query.Path {
	return logicalMap.Descendant("div").Where("ID", logicalID)
}

func physicalDiv(physicalID string) query.Path {
	return physicalMap.Descendant("div").Where("ID", physicalID)
}

func linksFrom(logicalID string) query.Path {
	return structLink.Descendant("smLink").Where("xlink:from", logicalID)
}

// mods addresses the MODS record wrapped by a dmdSec.
func mods(metadataID string) query.Path {
	return metsRoot.Child("dmdSec").Where("ID", metadataID).
		Child("mdWrap").Child("xmlData").Child("mods")
}
