package store

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/mkeyring/keyring"
	"github.com/iov-one/mkeyring/keyringtest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeystore(t *testing.T) {
	Convey("Given an empty keystore", t, func() {
		ks := NewMemKeystore()

		regs, err := ks.Load()
		So(err, ShouldBeNil)
		So(regs, ShouldBeEmpty)

		alice := keyring.Registration{
			PublicKeys:  keyringtest.Others(keyringtest.Alice),
			PrivateKeys: []string{keyringtest.Alice.PrivateKey},
			Threshold:   keyringtest.Threshold,
		}
		tom := keyring.Registration{
			PublicKeys:  keyringtest.Others(keyringtest.Tom),
			PrivateKeys: []string{keyringtest.Tom.PrivateKey},
			Threshold:   3,
		}

		Convey("Saved registrations are loaded in order", func() {
			So(ks.Save([]keyring.Registration{tom, alice}), ShouldBeNil)

			regs, err := ks.Load()
			So(err, ShouldBeNil)
			So(regs, ShouldResemble, []keyring.Registration{tom, alice})

			Convey("Saving again replaces the content", func() {
				So(ks.Save([]keyring.Registration{alice}), ShouldBeNil)

				regs, err := ks.Load()
				So(err, ShouldBeNil)
				So(regs, ShouldResemble, []keyring.Registration{alice})
			})

			Convey("Saving nothing clears the content", func() {
				So(ks.Save(nil), ShouldBeNil)

				regs, err := ks.Load()
				So(err, ShouldBeNil)
				So(regs, ShouldBeEmpty)
			})
		})

		Convey("More than 255 registrations keep their order", func() {
			var many []keyring.Registration
			for i := 0; i < 300; i++ {
				many = append(many, keyring.Registration{
					PrivateKeys: []string{keyringtest.Alice.PrivateKey},
					Threshold:   i + 1,
				})
			}
			So(ks.Save(many), ShouldBeNil)

			regs, err := ks.Load()
			So(err, ShouldBeNil)
			So(regs, ShouldResemble, many)
		})
	})
}

func TestKeystoreRestoresKeyring(t *testing.T) {
	Convey("Given a keystore on disk", t, func() {
		dir, err := ioutil.TempDir("", "keystore")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		ks, err := OpenKeystore("keyring", dir)
		So(err, ShouldBeNil)

		kr := keyring.New()
		_, err = kr.Register(ctx(), keyring.Registration{
			PublicKeys:  keyringtest.Others(keyringtest.Bob),
			PrivateKeys: []string{keyringtest.Bob.PrivateKey},
			Threshold:   keyringtest.Threshold,
		})
		So(err, ShouldBeNil)
		So(ks.Save(kr.Serialize()), ShouldBeNil)
		ks.Close()

		Convey("A reopened keystore restores the keyring", func() {
			ks, err := OpenKeystore("keyring", dir)
			So(err, ShouldBeNil)
			defer ks.Close()

			regs, err := ks.Load()
			So(err, ShouldBeNil)

			restored := keyring.New()
			restored.Deserialize(regs)
			addrs, err := restored.ListAddresses(ctx())
			So(err, ShouldBeNil)
			So(addrs, ShouldResemble, []string{keyringtest.AccountAddress})
		})
	})
}

func TestPrefixEnd(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		want   []byte
	}{
		"simple":        {prefix: []byte("ab"), want: []byte("ac")},
		"trailing 0xff": {prefix: []byte{0x01, 0xff}, want: []byte{0x02}},
		"all 0xff":      {prefix: []byte{0xff, 0xff}, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := prefixEnd(tc.prefix)
			if string(got) != string(tc.want) {
				t.Fatalf("want %X, got %X", tc.want, got)
			}
		})
	}
}

func ctx() context.Context {
	return context.Background()
}
