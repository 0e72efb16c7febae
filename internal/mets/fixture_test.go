package mets

import "github.com/lehigh-university-libraries/oaistruct/internal/query"

// envelope wraps METS sections in an OAI-PMH GetRecord response.
func envelope(sections string) *query.Document {
	return query.MustParse(`<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2024-05-01T10:00:00Z</responseDate>
  <request verb="GetRecord" metadataPrefix="mets" identifier="rec1">http://example.com/viewer/oai/</request>
  <GetRecord>
    <record>
      <header><identifier>rec1</identifier></header>
      <metadata>
        <mets:mets xmlns:mets="http://www.loc.gov/METS/" xmlns:mods="http://www.loc.gov/mods/v3" xmlns:xlink="http://www.w3.org/1999/xlink">
` + sections + `
        </mets:mets>
      </metadata>
    </record>
  </GetRecord>
</OAI-PMH>`)
}

func dmdSec(id, mods string) string {
	return `<mets:dmdSec ID="` + id + `"><mets:mdWrap MDTYPE="MODS"><mets:xmlData><mods:mods>` +
		mods + `</mods:mods></mets:xmlData></mets:mdWrap></mets:dmdSec>`
}

// periodical is one issue with two articles, a nested illustration and a
// division without ID.
//
//	LOG_0000 Periodical  -> PHYS_0000
//	  LOG_0001 Article   -> PHYS_0001, PHYS_0002   (labels "10", " 11 ")
//	    LOG_0002 Illustration -> PHYS_0002
//	  LOG_0003 Article   -> PHYS_0003, PHYS_0004   (labels "12", "12")
func periodical() *query.Document {
	return envelope(
		dmdSec("DMDLOG_0000", `
			<mods:titleInfo><mods:title>Journal of Examples</mods:title></mods:titleInfo>
			<mods:language><mods:languageTerm authority="iso639-2b" type="code">ger</mods:languageTerm></mods:language>`) +
			dmdSec("DMDLOG_0001", `
			<mods:titleInfo><mods:title>On Structure</mods:title><mods:subTitle>A Study</mods:subTitle></mods:titleInfo>
			<mods:name type="personal">
				<mods:namePart type="given">Jane</mods:namePart><mods:namePart type="family">Doe</mods:namePart>
				<mods:displayForm>Doe, Jane</mods:displayForm>
			</mods:name>
			<mods:name type="personal">
				<mods:namePart type="given">John</mods:namePart><mods:namePart type="family">Smith</mods:namePart>
				<mods:displayForm>Smith, John</mods:displayForm>
			</mods:name>
			<mods:abstract>  Structure is everywhere.  </mods:abstract>
			<mods:language><mods:languageTerm authority="iso639-2b" type="code">eng</mods:languageTerm></mods:language>`) +
			dmdSec("DMDLOG_0003", `
			<mods:titleInfo><mods:title>Second Article</mods:title></mods:titleInfo>
			<mods:name type="personal">
				<mods:namePart type="given">Ada</mods:namePart><mods:namePart type="family">Lovelace</mods:namePart>
			</mods:name>`) + `
			<mets:structMap TYPE="LOGICAL">
				<mets:div ID="LOG_0000" TYPE="Periodical" DMDID="DMDLOG_0000">
					<mets:div ID="LOG_0001" TYPE="Article" DMDID="DMDLOG_0001">
						<mets:div ID="LOG_0002" TYPE="Illustration" DMDID=""/>
					</mets:div>
					<mets:div ID="LOG_0003" TYPE="Article" DMDID="DMDLOG_0003"/>
					<mets:div TYPE="Advertising"/>
				</mets:div>
			</mets:structMap>
			<mets:structMap TYPE="PHYSICAL">
				<mets:div ID="PHYS_0000" TYPE="physSequence">
					<mets:div ID="PHYS_0001" ORDER="1" ORDERLABEL="10" CONTENTIDS="urn:nbn:at:1-0001" TYPE="page"/>
					<mets:div ID="PHYS_0002" ORDER="2" ORDERLABEL=" 11 " CONTENTIDS="urn:nbn:at:1-0002" TYPE="page"/>
					<mets:div ID="PHYS_0003" ORDER="3" ORDERLABEL="12" TYPE="page"/>
					<mets:div ID="PHYS_0004" ORDER="4" ORDERLABEL="12" CONTENTIDS="" TYPE="page"/>
				</mets:div>
			</mets:structMap>
			<mets:structLink>
				<mets:smLink xlink:from="LOG_0000" xlink:to="PHYS_0000"/>
				<mets:smLink xlink:from="LOG_0001" xlink:to="PHYS_0001"/>
				<mets:smLink xlink:from="LOG_0003" xlink:to="PHYS_0003"/>
				<mets:smLink xlink:from="LOG_0001" xlink:to="PHYS_0002"/>
				<mets:smLink xlink:from="LOG_0002" xlink:to="PHYS_0002"/>
				<mets:smLink xlink:from="LOG_0003" xlink:to="PHYS_0004"/>
			</mets:structLink>`)
}

// pages builds a physical structure map from (id, order, label) triples.
func pages(triples ...[3]string) string {
	s := `<mets:structMap TYPE="PHYSICAL"><mets:div ID="PHYS_0000" TYPE="physSequence">`
	for _, p := range triples {
		s += `<mets:div ID="` + p[0] + `" ORDER="` + p[1] + `" ORDERLABEL="` + p[2] + `" TYPE="page"/>`
	}
	return s + `</mets:div></mets:structMap>`
}
