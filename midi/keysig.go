package midi

import (
	"github.com/jsphweid/chorale/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func keySignature(msg smf.Message) (model.Key, bool) {
	var k smf.Key
	if !msg.GetMetaKey(&k) {
		return model.Key{}, false
	}
	return model.KeyFromSMF(k)
}

func keySignatureMessage(k model.Key) (smf.Message, bool) {
	sk, ok := k.SMF()
	if !ok {
		return nil, false
	}
	return smf.MetaKey(sk.Key, sk.IsMajor, sk.Num, sk.IsFlat), true
}
