package hostedzone

import (
	"encoding/xml"

	"github.com/nricciar/em-dns-manager/internal/web/handler"
	"github.com/nricciar/em-dns-manager/internal/zone"
)

// HostedZone is the wire shape of a zone. Its Id carries the route prefix
// so clients can use it as a path verbatim.
type HostedZone struct {
	ID              string           `xml:"Id"`
	Name            string           `xml:"Name"`
	CallerReference string           `xml:"CallerReference"`
	Config          HostedZoneConfig `xml:"Config"`
}

type HostedZoneConfig struct {
	Comment string `xml:"Comment"`
}

// NewHostedZone shapes a zone for the wire.
func NewHostedZone(z *zone.Zone) HostedZone {
	return HostedZone{
		ID:              "/hostedzone/" + z.Key,
		Name:            z.Origin,
		CallerReference: z.Ref,
		Config:          HostedZoneConfig{Comment: z.Comment},
	}
}

// DelegationSet lists the nameservers serving a zone.
type DelegationSet struct {
	NameServers struct {
		NameServer []string `xml:"NameServer"`
	} `xml:"NameServers"`
}

func NewDelegationSet(z *zone.Zone) DelegationSet {
	var ds DelegationSet
	ds.NameServers.NameServer = z.NameServers()

	return ds
}

// CreateHostedZoneRequest is the create request body.
type CreateHostedZoneRequest struct {
	XMLName          xml.Name `xml:"CreateHostedZoneRequest"`
	Name             string   `xml:"Name"            validate:"required"`
	CallerReference  string   `xml:"CallerReference" validate:"required,alphanum"`
	HostedZoneConfig struct {
		Comment string `xml:"Comment"`
	} `xml:"HostedZoneConfig"`
}

type CreateHostedZoneResponse struct {
	XMLName       xml.Name           `xml:"CreateHostedZoneResponse"`
	XMLNS         string             `xml:"xmlns,attr"`
	HostedZone    HostedZone         `xml:"HostedZone"`
	ChangeInfo    handler.ChangeInfo `xml:"ChangeInfo"`
	DelegationSet DelegationSet      `xml:"DelegationSet"`
}

type GetHostedZoneResponse struct {
	XMLName       xml.Name      `xml:"GetHostedZoneResponse"`
	XMLNS         string        `xml:"xmlns,attr"`
	HostedZone    HostedZone    `xml:"HostedZone"`
	DelegationSet DelegationSet `xml:"DelegationSet"`
}

type DeleteHostedZoneResponse struct {
	XMLName    xml.Name           `xml:"DeleteHostedZoneResponse"`
	XMLNS      string             `xml:"xmlns,attr"`
	ChangeInfo handler.ChangeInfo `xml:"ChangeInfo"`
}

type ListHostedZonesResponse struct {
	XMLName     xml.Name `xml:"ListHostedZonesResponse"`
	XMLNS       string   `xml:"xmlns,attr"`
	HostedZones struct {
		HostedZone []HostedZone `xml:"HostedZone"`
	} `xml:"HostedZones"`
	Marker      string `xml:"Marker,omitempty"`
	IsTruncated bool   `xml:"IsTruncated"`
	NextMarker  string `xml:"NextMarker,omitempty"`
	MaxItems    int    `xml:"MaxItems"`
}

// ChangeResourceRecordSetsRequest is the record change batch body.
// TTL stays a string here so a malformed value surfaces as a collected
// validation message instead of a decode failure.
type ChangeResourceRecordSetsRequest struct {
	XMLName     xml.Name `xml:"ChangeResourceRecordSetsRequest"`
	ChangeBatch struct {
		Comment string `xml:"Comment"`
		Changes struct {
			Change []Change `xml:"Change"`
		} `xml:"Changes"`
	} `xml:"ChangeBatch"`
}

type Change struct {
	Action            string `xml:"Action"`
	ResourceRecordSet struct {
		Name            string `xml:"Name"`
		Type            string `xml:"Type"`
		TTL             string `xml:"TTL"`
		ResourceRecords struct {
			ResourceRecord []ResourceRecord `xml:"ResourceRecord"`
		} `xml:"ResourceRecords"`
	} `xml:"ResourceRecordSet"`
}

type ResourceRecord struct {
	Value string `xml:"Value"`
}

type ChangeResourceRecordSetsResponse struct {
	XMLName    xml.Name           `xml:"ChangeResourceRecordSetsResponse"`
	XMLNS      string             `xml:"xmlns,attr"`
	ChangeInfo handler.ChangeInfo `xml:"ChangeInfo"`
}

// ResourceRecordSet is one record group on the wire: every record sharing
// an owner name and type, with their values side by side.
type ResourceRecordSet struct {
	Name            string `xml:"Name"`
	Type            string `xml:"Type"`
	TTL             uint32 `xml:"TTL"`
	ResourceRecords struct {
		ResourceRecord []ResourceRecord `xml:"ResourceRecord"`
	} `xml:"ResourceRecords"`
}

// NewResourceRecordSet shapes a record group for the wire. Owner names
// and payloads are fully expanded.
func NewResourceRecordSet(g zone.Group, origin string) ResourceRecordSet {
	set := ResourceRecordSet{
		Name: zone.Expand(g.Name, origin),
		Type: string(g.Type),
		TTL:  g.TTL,
	}

	for _, r := range g.Records {
		set.ResourceRecords.ResourceRecord = append(set.ResourceRecords.ResourceRecord,
			ResourceRecord{Value: r.Value(origin)})
	}

	return set
}

type ListResourceRecordSetsResponse struct {
	XMLName            xml.Name `xml:"ListResourceRecordSetsResponse"`
	XMLNS              string   `xml:"xmlns,attr"`
	ResourceRecordSets struct {
		ResourceRecordSet []ResourceRecordSet `xml:"ResourceRecordSet"`
	} `xml:"ResourceRecordSets"`
	IsTruncated    bool   `xml:"IsTruncated"`
	MaxItems       int    `xml:"MaxItems"`
	NextRecordName string `xml:"NextRecordName,omitempty"`
	NextRecordType string `xml:"NextRecordType,omitempty"`
}
