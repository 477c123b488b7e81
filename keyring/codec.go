package keyring

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/mkeyring/errors"
)

// registrationRecord is the protobuf representation of a Registration.
type registrationRecord struct {
	PublicKeys  []string `protobuf:"bytes,1,rep,name=public_keys,json=publicKeys,proto3" json:"public_keys,omitempty"`
	PrivateKeys []string `protobuf:"bytes,2,rep,name=private_keys,json=privateKeys,proto3" json:"private_keys,omitempty"`
	Threshold   int64    `protobuf:"varint,3,opt,name=threshold,proto3" json:"threshold,omitempty"`
}

func (m *registrationRecord) Reset()         { *m = registrationRecord{} }
func (m *registrationRecord) String() string { return proto.CompactTextString(m) }
func (*registrationRecord) ProtoMessage()    {}

var _ proto.Message = (*registrationRecord)(nil)

// Marshal returns the binary representation of the registration.
func (r Registration) Marshal() ([]byte, error) {
	rec := registrationRecord{
		PublicKeys:  r.PublicKeys,
		PrivateKeys: r.PrivateKeys,
		Threshold:   int64(r.Threshold),
	}
	buf := proto.NewBuffer(nil)
	if err := buf.Marshal(&rec); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "marshal registration: "+err.Error())
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a registration serialized with Marshal.
func (r *Registration) Unmarshal(raw []byte) error {
	var rec registrationRecord
	if err := proto.NewBuffer(raw).Unmarshal(&rec); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "unmarshal registration: "+err.Error())
	}
	*r = Registration{
		PublicKeys:  rec.PublicKeys,
		PrivateKeys: rec.PrivateKeys,
		Threshold:   int(rec.Threshold),
	}
	return nil
}
