// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package script

// testItems is the data set used by the test command. The keys are
// pronounceable nonsense words so that their hashes are scattered, with a
// few punctuation characters mixed in.
var testItems = []struct {
	key, value string
}{
	{"hello", "there"},
	{"hum hum hum", "hello!"},
	{"Hello", "THERE!"},
	{"LA LA LA", "thar"},
	{"zoom!", "zum"},
	{"ciddyum5", "cidd-yum-FIVE)"},
	{"EtKuvmiss", "(Et-Kuv-miss)"},
	{"5ghidEkoj", "(FIVE-ghid-Ek-oj)"},
	{"vienHetGea", "(vien-Het-Gea)"},
	{"TakriWidd2", "(Tak-ri-Widd-TWO)"},
	{"noyquipGia", "(noy-quip-Gia)"},
	{"yeFryemuc", "(ye-Fryem-uc)"},
	{"icduAbrutt", "(ic-du-Abr-utt)"},
	{"NeanAbquin", "(Nean-Ab-quin)"},
	{"RoquoHoa", "(Ro-quo-Hoa)"},
	{"ikbejhuj", "(ik-bej-huj)"},
	{"Ajuckbegho", "(Aj-uck-be-gho)"},
	{"ReAnwohaf", "(Re-An-wo-haf)"},
	{"NibFejDez3", "(Nib-Fej-Dez-THREE)"},
	{"RhoidDyg", "(Rhoid-Dyg)"},
	{"ogWuHogh_", "(og-Wu-Hogh-UNDERSCORE)"},
	{"cywidCaypt", "(cy-wid-Caypt)"},
	{"gardyeaw8", "(gard-yeaw-EIGHT)"},
	{"umUcnibPa", "(um-Uc-nib-Pa)"},
	{"vekkegtu", "(vek-keg-tu)"},
	{"ujfeuthal", "(uj-feuth-al)"},
	{"tepmagep5", "(tep-mag-ep-FIVE)"},
	{"LyripkaQui", "(Ly-rip-ka-Qui)"},
	{"ShanBykdav", "(Shan-Byk-dav)"},
	{"ninnyiteuk", "(ninn-yit-euk)"},
	{"NaykViWo", "(Nayk-Vi-Wo)"},
	{"ojnolbIj6", "(oj-nolb-Ij-SIX)"},
	{"GlujMamCu", "(Gluj-Mam-Cu)"},
	{"ugByalye", "(ug-Byal-ye)"},
	{"grurrogEn", "(grurr-og-En)"},
	{"fofidUck", "(fof-id-Uck)"},
	{"mevyimIl", "(mev-yim-Il)"},
	{"EepDagZoag", "(Eep-Dag-Zoag)"},
	{"caweshVad%", "(caw-esh-Vad-PERCENT_SIGN)"},
	{"cagyecJep-", "(cag-yec-Jep-HYPHEN)"},
	{"MyaSwosil", "(Mya-Swos-il)"},
	{"Oadcudyon", "(Oad-cud-yon)"},
	{"thiUnyef", "(thi-Un-yef)"},
	{"Viravboo", "(Vir-av-boo)"},
	{"ixhysyemUf", "(ix-hys-yem-Uf)"},
	{`snemurz\`, "(snem-urz-BACKSLASH)"},
	{"stazCoj7", "(staz-Coj-SEVEN)"},
	{"disEitya", "(dis-Eit-ya)"},
	{"GajThad1", "(Gaj-Thad-ONE)"},
	{"nooccynRy", "(nooc-cyn-Ry)"},
	{"fachucVeur", "(fac-huc-Veur)"},
	{"WozDinn`", "(Woz-Dinn-GRAVE)"},
	{"rabaynly", "(rab-ayn-ly)"},
	{"RyapuvFi", "(Ryap-uv-Fi)"},
}
